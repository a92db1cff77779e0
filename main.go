package main

import "github.com/lepinkainen/scribe/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
