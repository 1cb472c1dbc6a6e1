package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/secmon-lab/reachout/pkg/cli"
)

var version = "dev"

func main() {
	// A missing .env is fine; flags and the real environment still apply.
	_ = godotenv.Load()

	if err := cli.Run(context.Background(), os.Args, version); err != nil {
		os.Exit(1)
	}
}
