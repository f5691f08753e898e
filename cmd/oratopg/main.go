package main

import (
	"os"

	"github.com/dbmigrate/oratopg/cmd/oratopg/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
