package main

import "github.com/dgallion1/chat2md/cmd/chat2md/commands"

func main() {
	commands.Execute()
}
