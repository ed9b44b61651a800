package main

import "github.com/agentic-research/cardgraph/cmd"

func main() {
	cmd.Execute()
}
