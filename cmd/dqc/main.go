package main

import (
	"fmt"
	"os"

	"github.com/alexanderjulianmartinez/dqc/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dqc error: %v\n", err)
		os.Exit(1)
	}
}
