package main

import "chronoline/cmd"

func main() {
	cmd.Execute()
}
