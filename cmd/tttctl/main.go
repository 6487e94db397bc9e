package main

import "github.com/rocketscienceinc/tictactoe-sessions/internal/cli"

func main() {
	cli.Execute()
}
