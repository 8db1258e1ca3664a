package main

import "surplus-food-api/cmd"

func main() {
	cmd.Execute()
}
