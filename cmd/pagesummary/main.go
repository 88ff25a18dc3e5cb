// Command pagesummary summarizes web pages with a configurable LLM provider
// and serves the same capability over HTTP and MCP.
package main

import (
	"os"

	"github.com/fatih/color"
)

func main() {
	a := newApp(os.Stdout, os.Stderr)
	if err := newRootCmd(a).Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
