package main

import "github.com/christianWissmann85/claude-memory-hook/cmd"

func main() {
	cmd.Execute()
}
