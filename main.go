package main

import (
	"github.com/seralo/convo/cmd"
)

func main() {
	cmd.Execute()
}
