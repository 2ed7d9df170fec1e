// Package classify implements the markup classifier (C1): given an input
// file's declared type hint and raw content, it decides whether the
// content is USX, USFM, or pre-parsed JSON.
package classify

import (
	"strings"

	"github.com/averyhale/versetree/pkg/markup"
)

// Markup identifies which family an input file belongs to.
type Markup string

const (
	USX        Markup = "usx"
	USFM       Markup = "usfm"
	JSONParsed Markup = "json_parsed"
)

// Classify honors a recognized fileType hint; otherwise it sniffs the
// content: a leading '<' implies USX, a leading "\id " token implies USFM,
// a leading '{' implies pre-parsed JSON. Anything else fails with
// UnrecognizedMarkup.
func Classify(fileTypeHint string, content []byte) (Markup, error) {
	switch fileTypeHint {
	case "usx":
		return USX, nil
	case "usfm":
		return USFM, nil
	case "json":
		return JSONParsed, nil
	}

	trimmed := strings.TrimSpace(string(content))
	switch {
	case strings.HasPrefix(trimmed, "<"):
		return USX, nil
	case strings.HasPrefix(trimmed, `\id `) || strings.HasPrefix(trimmed, `\id`+"\t"):
		return USFM, nil
	case strings.HasPrefix(trimmed, "{"):
		return JSONParsed, nil
	}
	return "", markup.NewUnrecognizedMarkup("content does not begin with '<', '\\id ', or '{', and no recognized fileType hint was given")
}
