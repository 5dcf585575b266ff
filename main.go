package main

import "github.com/b-fg/waterlily/cmd"

func main() {
	cmd.Execute()
}
