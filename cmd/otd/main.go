package main

import "github.com/OpenTraceLab/OpenTraceDXF/cmd/otd/cmd"

func main() {
	cmd.Execute()
}
