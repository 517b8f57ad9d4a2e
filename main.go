package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/obvil-labs/teiscope/internal/adapters/driving/cli"
)

func main() {
	if err := fang.Execute(
		context.Background(),
		cli.Root(),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
