package main

import "github.com/mcoot/superbowl-squares/internal/cli"

func main() {
	cli.Execute()
}
