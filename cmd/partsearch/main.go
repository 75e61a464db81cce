// Package main is the entry point for the partsearch CLI.
package main

import (
	"github.com/donaldgifford/partsearch/cmd/partsearch/cmd"
)

func main() {
	cmd.Execute()
}
