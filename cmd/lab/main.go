package main

import "momentumlab/cmd"

func main() {
	cmd.Execute()
}
