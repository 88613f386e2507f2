package main

import (
	"fmt"
	"os"

	"library-tracker/cli"
	"library-tracker/config"
)

// import_books is a shortcut for "library-tracker import": it takes the same
// --data, --backend and --log-level flags followed by the CSV path.
func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	args := append([]string{"import"}, os.Args[1:]...)
	if err := cli.Execute(cfg, args, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
