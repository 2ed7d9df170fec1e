// Package cliutil holds small terminal-feedback helpers shared by the
// versetree CLI subcommands, adapted from the ingestion tool's spinner.
package cliutil

import (
	"fmt"
	"os"
	"time"
)

// Spinner prints a rotating text-mode spinner next to text until stop is
// closed, overwriting the same terminal line each frame.
func Spinner(text string, stop chan bool) {
	frames := []string{"-", "\\", "|", "/"}
	for {
		select {
		case <-stop:
			fmt.Print("\r")
			return
		default:
			for _, frame := range frames {
				fmt.Printf("\r%s %s... ", frame, text)
				os.Stdout.Sync()
				time.Sleep(100 * time.Millisecond)
			}
		}
	}
}
