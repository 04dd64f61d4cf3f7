package main

import "github.com/lacrosselens/lacrosselens-engine/cmd"

func main() {
	cmd.Execute()
}
