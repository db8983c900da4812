package main

import (
	"os"

	"github.com/JoelChinoP/voting-system-front/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
