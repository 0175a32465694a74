//go:build cli
// +build cli

package main

import (
	_ "logpose.GO/custom"

	"logpose.GO/cmd"
	"logpose.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
