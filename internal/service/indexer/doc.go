// Package indexer renders the static index page listing every mined
// artifact in version order. The page is rewritten in full on each render;
// only the timestamp differs between renders of an identical artifact set.
package indexer
