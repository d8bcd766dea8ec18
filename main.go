package main

import "pushbot/cmd"

func main() {
	cmd.Execute()
}
