package main

import (
	"os"
)

func main() {
	if err := newRootCmd(buildMatcher).Execute(); err != nil {
		os.Exit(1)
	}
}
