package main

import "github.com/KaramelBytes/vaxkpi-cli/cmd"

func main() {
	cmd.Execute()
}
