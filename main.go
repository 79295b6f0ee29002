package main

import (
	"log"

	"github.com/jobify/assistant/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
