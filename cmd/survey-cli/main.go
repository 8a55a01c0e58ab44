package main

import (
	"fmt"
	"os"

	"yashubustudio/sleepsurvey/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "survey-cli: %v\n", err)
		os.Exit(1)
	}
}
