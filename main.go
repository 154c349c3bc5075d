package main

import (
	"github.com/foomo/sitegen/cmd"
)

func main() {
	cmd.Execute()
}
