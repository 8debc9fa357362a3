package main

import (
	"os"

	"github.com/dshills/constlist/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
