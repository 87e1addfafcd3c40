package main

import "gadgetstore/internal/cmd"

func main() {
	cmd.Execute()
}
