package main

import "github.com/minsukang/tripweaver/internal/adapters/cli"

func main() {
	cli.Execute()
}
