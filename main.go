package main

import "github.com/pivolan/bandwidth_insights/cmd"

func main() {
	cmd.Execute()
}
