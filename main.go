package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"fjacquet/hkstmt/cmd/export"
	"fjacquet/hkstmt/cmd/parse"
	"fjacquet/hkstmt/cmd/root"
	"fjacquet/hkstmt/cmd/serve"
)

func init() {
	// Load environment variables silently before anything reads them; a
	// missing .env file is not an error.
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}

	root.Init()

	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
