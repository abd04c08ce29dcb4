// cmd/wikirag/main.go
package main

import (
	cmd "github.com/mwiater/wikirag/internal/cli"
)

// main starts the wikirag CLI application by delegating to the
// cobra root command defined in the wikirag package. It does not
// take any arguments and does not return a value.
func main() {
	cmd.Execute()
}
