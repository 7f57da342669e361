package main

import "github.com/skyline-proger/stock-data-pipeline/cmd"

func main() {
	cmd.Execute()
}
