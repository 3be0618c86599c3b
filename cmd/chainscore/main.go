package main

import "chainscore/internal/cli"

func main() {
	cli.Execute()
}
