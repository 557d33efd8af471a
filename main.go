package main

import "github.com/jackchuka/sift/cmd"

func main() {
	cmd.Execute()
}
