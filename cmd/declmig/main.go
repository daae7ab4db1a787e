package main

import "github.com/declmig/declmig/internal/cli"

func main() {
	cli.Execute()
}
