package main

import "github.com/mouse-blink/vendoring/cmd"

func main() {
	cmd.Execute()
}
