package main

import "github.com/JonMunkholm/dashbored/internal/cli"

func main() {
	cli.Execute()
}
