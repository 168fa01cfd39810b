package main

import "neurotic/internal/cli"

func main() {
	cli.Execute()
}
