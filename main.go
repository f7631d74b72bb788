package main

import "github.com/llehouerou/echoes/internal/cli"

func main() {
	cli.Execute()
}
