package main

import "github.com/eventlive/eventlive-backend/cmd"

func main() {
	cmd.Execute()
}
