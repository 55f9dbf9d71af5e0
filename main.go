package main

import "github.com/marschall-lab/panacus-go/cmd"

func main() {
	cmd.Execute()
}
