package main

import "newstyping/cmd"

func main() {
	cmd.Execute()
}
