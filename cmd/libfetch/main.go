package main

import "libfetch/internal/cli"

func main() {
	cli.Execute()
}
