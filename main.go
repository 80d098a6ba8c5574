package main

import (
	"os"

	"github.com/repolens-dev/repolens/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
