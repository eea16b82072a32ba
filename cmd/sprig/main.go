package main

import "github.com/mcoot/sprig-core/internal/cli"

func main() {
	cli.Execute()
}
