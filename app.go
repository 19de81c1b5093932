package main

import "github.com/masmgr/gitlog-go/cmd"

func main() {
	cmd.Run()
}
