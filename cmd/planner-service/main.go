package main

import (
	"fmt"
	"os"

	"github.com/minsukang/tripweaver/internal/adapters/cli"
)

// planner-service is the standalone HTTP service binary: equivalent to
// `tripweaver serve` but convenient for container images.
func main() {
	root := cli.NewRootCommand()
	root.SetArgs(append([]string{"serve"}, os.Args[1:]...))
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
