package main

import "github.com/yomitoru/yomitoru/cmd/yomitoru/cmd"

func main() {
	cmd.Execute()
}
