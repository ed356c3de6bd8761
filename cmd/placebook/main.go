package main

import "github.com/kailas-cloud/placebook/cmd/placebook/command"

func main() {
	command.Execute()
}
