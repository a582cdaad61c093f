// Command rv32i is the command-line interface to the simulator.
package main

import (
	"context"
	"os"

	"rv32i/internal/cli"
	"rv32i/internal/cli/cmd"
)

var commands = []cli.Command{
	cmd.Run(),
	cmd.Step(),
}

// Entry point.
func main() {
	result :=
		cli.New(context.Background()).
			WithLogger(os.Stderr).
			WithCommands(commands).
			WithHelp(cmd.Help(commands)).
			Execute(os.Args[1:])

	os.Exit(result)
}
