package main

import (
	"os"

	"github.com/b4fun/zatlin-go/cmd/zatlin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
