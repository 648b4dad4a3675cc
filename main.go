package main

import (
	"github.com/sw33tLie/livewatch/cmd"
)

func main() {
	cmd.Execute()
}
