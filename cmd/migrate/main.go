package main

import (
	"os"
)

func main() {
	if err := newRootCommand(runMigration).Execute(); err != nil {
		os.Exit(1)
	}
}
