// Package main is the entry point for the restock-tracker.
package main

import (
	"os"

	"github.com/donaldgifford/restock-tracker/cmd/restock-tracker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
