package main

import "github.com/mabhi256/jvmgo/cmd"

func main() {
	cmd.Execute()
}
