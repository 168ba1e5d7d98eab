package main

import "bdd_automation/presentation/cli"

func main() {
	cli.Execute()
}
