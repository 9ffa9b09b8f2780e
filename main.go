package main

import "github.com/wildstyl3r/slitorbit/cmd"

func main() {
	cmd.Execute()
}
