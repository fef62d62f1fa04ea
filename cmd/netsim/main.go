package main

import "netsim/internal/cli"

func main() {
	cli.Execute()
}
