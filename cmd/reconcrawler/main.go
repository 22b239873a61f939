package main

import (
	"os"

	"github.com/go-recon/reconcrawler/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
