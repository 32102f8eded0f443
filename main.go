package main

import "github.com/ignitionstack/fnctl/cmd"

func main() {
	cmd.Execute()
}
