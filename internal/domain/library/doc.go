// Package library holds the pure value types of the miner wrapper: artifact
// version keys parsed from filenames, the single comparator defining their
// total order, and the set arithmetic used to detect freshly mined files.
package library
