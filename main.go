package main

import "github.com/KaramelBytes/classify-cli/cmd"

func main() {
	cmd.Execute()
}
