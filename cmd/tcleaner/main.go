package main

import (
	"os"
)

var (
	Version   string = "1.2.0"
	GitCommit string = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
