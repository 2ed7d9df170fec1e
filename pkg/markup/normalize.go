package markup

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// collapseWhitespace turns every run of whitespace (including newlines) into
// a single space. It does not trim the ends — that happens once, over the
// whole sequence, in trimInline.
func collapseWhitespace(s string) string {
	return whitespaceRun.ReplaceAllString(s, " ")
}

// makeInline builds the InlineItem for a collapsed text fragment, applying
// poetry-level and words-of-Jesus promotion (promotion happens before
// coalescing, so consecutive same-formatted fragments merge in appendInline).
func makeInline(text string, poem int, wordsOfJesus bool) InlineItem {
	if poem == 0 && !wordsOfJesus {
		return PlainText(text)
	}
	return &StyledText{Type: "text", Text: text, Poem: poem, WordsOfJesus: wordsOfJesus}
}

// appendInline appends item to items, coalescing with the tail entry when
// both are plain strings, or both are styled text with identical formatting.
// A whitespace run formed at the seam of a coalesced pair collapses to one
// space.
func appendInline(items []InlineItem, item InlineItem) []InlineItem {
	if len(items) == 0 {
		return append(items, item)
	}
	tail := items[len(items)-1]
	switch v := item.(type) {
	case PlainText:
		if t, ok := tail.(PlainText); ok {
			items[len(items)-1] = PlainText(collapseWhitespace(string(t + v)))
			return items
		}
	case *StyledText:
		if t, ok := tail.(*StyledText); ok && t.Poem == v.Poem && t.WordsOfJesus == v.WordsOfJesus {
			t.Text = collapseWhitespace(t.Text + v.Text)
			return items
		}
	}
	return append(items, item)
}

// trimInline drops empty entries, drops text entries that are only spaces
// from either end of the sequence, and trims leading/trailing whitespace of
// the first and last entries that remain.
func trimInline(items []InlineItem) []InlineItem {
	out := items[:0]
	for _, it := range items {
		switch v := it.(type) {
		case PlainText:
			if v != "" {
				out = append(out, v)
			}
		case *StyledText:
			if v.Text != "" {
				out = append(out, v)
			}
		default:
			out = append(out, it)
		}
	}
	blank := func(it InlineItem) bool {
		switch v := it.(type) {
		case PlainText:
			return strings.Trim(string(v), " ") == ""
		case *StyledText:
			return strings.Trim(v.Text, " ") == ""
		}
		return false
	}
	for len(out) > 0 && blank(out[0]) {
		out = out[1:]
	}
	for len(out) > 0 && blank(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return out
	}
	switch v := out[0].(type) {
	case PlainText:
		trimmed := strings.TrimLeft(string(v), " ")
		if trimmed == "" {
			out = out[1:]
		} else {
			out[0] = PlainText(trimmed)
		}
	case *StyledText:
		v.Text = strings.TrimLeft(v.Text, " ")
		if v.Text == "" {
			out = out[1:]
		}
	}
	if len(out) == 0 {
		return out
	}
	last := len(out) - 1
	switch v := out[last].(type) {
	case PlainText:
		trimmed := strings.TrimRight(string(v), " ")
		if trimmed == "" {
			out = out[:last]
		} else {
			out[last] = PlainText(trimmed)
		}
	case *StyledText:
		v.Text = strings.TrimRight(v.Text, " ")
		if v.Text == "" {
			out = out[:last]
		}
	}
	return out
}

var leadingVerseRef = regexp.MustCompile(`^\d{1,3}:\d{1,3}\s*`)

// StripLeadingReference removes a leading "C:V " pattern from footnote
// text, as left behind by some source footnote paragraphs.
func StripLeadingReference(s string) string {
	return leadingVerseRef.ReplaceAllString(s, "")
}
