package main

import "github.com/mcoot/bowlscore/internal/cli"

func main() {
	cli.Execute()
}
