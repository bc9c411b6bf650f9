package main

import (
	"github.com/Laisky/gitpress/cmd"
)

func main() {
	cmd.Execute()
}
