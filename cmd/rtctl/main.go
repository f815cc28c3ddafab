// Package main is the entry point for the rtctl CLI client.
package main

import (
	"github.com/donaldgifford/restock-tracker/cmd/rtctl/cmd"
)

func main() {
	cmd.Execute()
}
