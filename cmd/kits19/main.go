package main

import (
	"github.com/linggood/kits19-challenge/cmd/kits19/cmd"
)

func main() {
	cmd.Execute()
}
