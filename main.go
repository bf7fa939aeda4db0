package main

import (
	"github.com/petuhovskiy/thus-saith/internal/cli"
)

func main() {
	cli.Execute()
}
