package main

import (
	"fmt"
	"os"

	"github.com/hemant-crossml/LMS-assignment/internal/app"
)

func main() {
	if err := app.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lms: %v\n", err)
		os.Exit(1)
	}
}
