package main

import "github.com/MeKo-Tech/eanscan/cmd/eanscan/cmd"

func main() {
	cmd.Execute()
}
