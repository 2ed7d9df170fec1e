// Command versetree turns a directory of USX/USFM scripture source files into
// a materialized tree of JSON API documents, and can resolve references or
// verify invariants against the result.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// CLI is the top-level command set, grounded on tools/verify/main.go's kong
// command-struct pattern.
type CLI struct {
	Generate GenerateCmd `cmd:"" help:"Parse an input corpus and materialize the JSON API tree"`
	Lookup   LookupCmd   `cmd:"" help:"Resolve a scripture reference against a materialized API tree"`
	Verify   VerifyCmd   `cmd:"" help:"Check a materialized API tree against the invariants generate produces"`
}

func main() {
	kongCtx := kong.Parse(
		&CLI{},
		kong.Name("versetree"),
		kong.Description("USX/USFM scripture markup to JSON API pipeline"),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	if err := kongCtx.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
