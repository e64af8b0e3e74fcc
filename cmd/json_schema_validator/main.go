// Package main provides the entry point for the json_schema_validator command.
package main

import (
	"github.com/jonathan/wpss-validators/internal/cliexit"
	"github.com/joho/godotenv"
)

var rootCmd = newRootCmd()

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cliexit.Run(rootCmd.Execute)
}
