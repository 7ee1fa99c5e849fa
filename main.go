package main

import "github.com/naka-gawa/github-contribs/cmd"

func main() {
	cmd.Execute()
}
