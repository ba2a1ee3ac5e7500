package main

import (
	"AdStudio/cmd/adstudio/cmd"
	"os"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
