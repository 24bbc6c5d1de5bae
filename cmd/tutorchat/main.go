package main

import (
	"os"

	"github.com/averyli/tutorchat/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
