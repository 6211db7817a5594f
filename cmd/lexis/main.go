package main

import (
	"os"

	"lexis/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
