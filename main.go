package main

import (
	"github.com/iLeonidze/tg-attendances-bot/cmd"
)

func main() {
	cmd.Execute()
}
