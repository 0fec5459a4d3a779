package main

import "github.com/twiced-technology-gmbh/check/cmd"

func main() {
	cmd.Execute()
}
