package main

import (
	"log"

	"github.com/microbrews/abs-chapters/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
