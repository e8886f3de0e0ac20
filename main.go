package main

import "github.com/robmorgan/metronizer/cmd"

func main() {
	cmd.Execute()
}
