package main

import (
	"github.com/autobrr/discordhook/cmd"
)

func main() {
	cmd.Execute()
}
