package main

import "github.com/oshokin/miner-runner/cmd/miner-runner/cmd"

func main() {
	cmd.Execute()
}
