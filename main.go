package main

import "github.com/studypilot/studypilot/cmd"

func main() {
	cmd.Execute()
}
