package main

import "github.com/jsphweid/sfdex/cmd"

func main() {
	cmd.Execute()
}
