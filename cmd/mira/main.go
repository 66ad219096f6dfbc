package main

import (
	"github.com/snupai/mira/internal/cli"
)

func main() {
	cli.Execute()
}
