package main

import "github.com/lsmithpanw/pcs-where-is/cmd"

func main() {
	cmd.Execute()
}
