// Package miner invokes the containerized scraper and classifies its exit
// status. The invocation is synchronous and unbounded: a hanging container
// hangs the caller, which is the documented behavior of the wrapper.
package miner
