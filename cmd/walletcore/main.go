package main

import (
	"os"

	"walletcore/cmd/walletcore/commands"
)

func main() {
	os.Exit(commands.ExitCode(commands.Execute()))
}
