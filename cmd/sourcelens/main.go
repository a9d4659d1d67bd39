package main

import "github.com/mvp-joe/sourcelens/internal/cli"

func main() {
	cli.Execute()
}
