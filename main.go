package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/ali-ezz/web-cart-galaxy/cmd"
)

func main() {
	// Local development reads a .env file; production relies on real
	// environment variables, so a missing file is not an error.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
