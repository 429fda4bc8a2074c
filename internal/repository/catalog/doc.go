// Package catalog lists the artifact directory the miner writes into.
//
// The DirRepository takes point-in-time snapshots of the directory as a
// filename set; the runner diffs two snapshots taken around a miner run to
// find freshly produced artifacts.
package catalog
