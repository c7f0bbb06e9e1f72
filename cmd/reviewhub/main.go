package main

import (
	"os"

	"reviewhub/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
