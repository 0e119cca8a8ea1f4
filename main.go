package main

import "github.com/user/framecut-cli/cmd"

func main() {
	cmd.Execute()
}
