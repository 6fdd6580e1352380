// Command airecover recovers structured values and diagrams from raw
// language-model output read from files or stdin.
//
//	airecover json reply.txt --output yaml
//	cat reply.txt | airecover diagram
//	airecover markdown --html docs.html
//
// Logging goes to stderr and is configured with --log-level and --log-format
// or the AIRECOVER_LOG_LEVEL and AIRECOVER_LOG_FORMAT variables, which may
// also be set in a .env file.
package main

import (
	"errors"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errInputsFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
