// Package usfm parses the USFM (line-oriented) scripture markup family
// into the package markup parse tree. Markers are treated as boundary
// tokens in a single whole-document scan rather than line-by-line, since
// \f...\f* and \wj...\wj* spans can straddle line breaks exactly like
// \c/\v do.
package usfm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/averyhale/versetree/pkg/markup"
)

var markerPattern = regexp.MustCompile(`\\[A-Za-z][A-Za-z0-9]*\*?`)

// plainParaMarkers are ordinary (non-poetic, non-ignored) paragraph
// markers: their content streams into the open verse with poem=0, the
// USFM equivalent of USX's "otherwise" <para> branch.
var plainParaMarkers = map[string]bool{
	"p": true, "m": true, "pc": true, "nb": true, "cls": true, "mi": true,
	"pi1": true, "pi2": true, "pi3": true, "pi4": true,
}

// ignoreMarkers mirrors the USX ignore list, translated to its USFM
// equivalents; their payload is dropped entirely.
var ignoreMarkers = map[string]bool{}

func init() {
	for _, m := range strings.Fields(
		"ide rem h h1 h2 h3 h4 toc1 toc2 toc3 toca1 toca2 toca3 imt imt1 imt2 imt3 imt4 " +
			"is is1 is2 is3 is4 ip ipi im imi ipq imq ipr iq iq1 iq2 iq3 iq4 ib ili ili1 ili2 ili3 ili4 " +
			"iot io io1 io2 io3 io4 iex imte ie mt mt1 mt2 mt3 mt4 mte mte1 mte2 mte3 mte4 cl cd r",
	) {
		ignoreMarkers[m] = true
	}
}

type token struct {
	marker  string // without leading backslash
	payload string // text up to (not including) the next marker
}

func tokenize(content string) []token {
	locs := markerPattern.FindAllStringIndex(content, -1)
	tokens := make([]token, 0, len(locs))
	for i, loc := range locs {
		marker := content[loc[0]+1 : loc[1]]
		end := len(content)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		tokens = append(tokens, token{marker: marker, payload: content[loc[1]:end]})
	}
	return tokens
}

// sink identifies where emitted text currently routes.
type sinkKind int

const (
	sinkNone sinkKind = iota
	sinkVerse
	sinkSubtitle
	sinkNote
)

// Parse parses a USFM document into a markup.Book, recording any non-fatal
// diagnostics into diag (nil discards them).
func Parse(content []byte, diag *markup.Sink) (*markup.Book, error) {
	tokens := tokenize(string(content))

	var bb *markup.BookBuilder
	var cb *markup.ChapterBuilder
	poem := 0
	wj := false
	cur := sinkNone
	var prevSink sinkKind
	var noteCaller *string
	var noteRefVerse int
	var noteBuf strings.Builder

	// emit routes a token's raw payload to whatever cur currently names. For
	// verse/subtitle content it hands the raw text straight to cb.Emit (the
	// same contract USX's walkInline uses), so collapseWhitespace/trimInline
	// alone decide what survives; pre-trimming here would discard the
	// single space that separates adjacent same-formatted runs.
	emit := func(raw string) {
		switch cur {
		case sinkVerse, sinkSubtitle:
			if cb != nil {
				cb.Emit(raw, poem, wj)
			}
		case sinkNote:
			text := strings.TrimSpace(raw)
			if text != "" {
				noteBuf.WriteString(text)
				noteBuf.WriteString(" ")
			}
		}
	}

	for _, t := range tokens {
		switch {
		case t.marker == "id":
			fields := strings.Fields(t.payload)
			code := ""
			if len(fields) > 0 {
				code = strings.ToUpper(fields[0])
			}
			if code == "" {
				return nil, markup.NewMissingBook("\\id marker has no book code")
			}
			bb = markup.NewBookBuilder(code)
		case t.marker == "h":
			if bb != nil {
				bb.SetHeader(strings.TrimSpace(t.payload))
			}
		case t.marker == "mt1" || t.marker == "mt2" || t.marker == "mt3":
			if bb != nil {
				bb.AddTitlePart(strings.TrimSpace(t.payload))
			}
		case t.marker == "c":
			if bb == nil {
				return nil, markup.NewMissingBook("\\c encountered before \\id")
			}
			cb = bb.StartChapter(leadingInt(t.payload))
			poem, wj, cur = 0, false, sinkNone
		case t.marker == "s1" || t.marker == "s2" || t.marker == "s3" || t.marker == "s4":
			if cb != nil {
				cb.AppendHeading(strings.TrimSpace(t.payload))
			} else if bb != nil {
				bb.AddPreChapterHeading(strings.TrimSpace(t.payload))
			}
			poem, cur = 0, sinkNone
		case t.marker == "b":
			if cb != nil {
				cb.AppendLineBreak()
			}
			poem, cur = 0, sinkNone
		case t.marker == "d":
			if cb != nil {
				cb.OpenSubtitle()
				cur = sinkSubtitle
				emit(t.payload)
			}
		case t.marker == "q1" || t.marker == "q2" || t.marker == "q3" || t.marker == "q4":
			poem = int(t.marker[1] - '0')
			emit(t.payload)
		case plainParaMarkers[t.marker]:
			poem = 0
			emit(t.payload)
		case t.marker == "v":
			rest := strings.TrimLeft(t.payload, " ")
			n, remainder := splitLeadingInt(rest)
			if cb != nil {
				if last := cb.LastVerseNumber(); last != 0 && n <= last {
					diag.WarnVerseRegression(
						fmt.Sprintf("verse %d follows verse %d", n, last),
						fmt.Sprintf("chapter %d", cb.Number()),
					)
				}
				cb.OpenVerse(n)
				cur = sinkVerse
				emit(remainder)
			}
		case t.marker == "wj":
			wj = true
			emit(t.payload)
		case t.marker == "wj*":
			wj = false
			emit(t.payload)
		case t.marker == "f":
			// The first word of the payload is the caller; any text after
			// it is already part of the note body.
			payload := strings.TrimLeft(t.payload, " \t\r\n")
			callerText, rest := payload, ""
			if i := strings.IndexAny(payload, " \t\r\n"); i >= 0 {
				callerText, rest = payload[:i], payload[i:]
			}
			noteCaller = callerOf(callerText)
			noteBuf.Reset()
			prevSink = cur
			if cb != nil && cur == sinkVerse {
				noteRefVerse = cb.CurrentVerse()
			} else {
				noteRefVerse = 0
			}
			cur = sinkNote
			emit(rest)
		case t.marker == "f*":
			cur = prevSink
			if cb != nil {
				text := markup.StripLeadingReference(strings.TrimSpace(noteBuf.String()))
				id := cb.AllocNoteID()
				cb.AddFootnote(markup.Footnote{
					NoteID: id,
					Caller: noteCaller,
					Text:   text,
					Reference: markup.Reference{
						Chapter: cb.Number(),
						Verse:   noteRefVerse,
					},
				})
				cb.EmitItem(&markup.FootnoteRef{Type: "footnote_reference", NoteID: id})
			}
			emit(t.payload)
		case t.marker == "fr" || t.marker == "ft" || t.marker == "fq" || t.marker == "fk" ||
			t.marker == "fl" || t.marker == "fdc" || t.marker == "fv" || t.marker == "fw":
			emit(t.payload)
		case ignoreMarkers[t.marker]:
			// no output
		default:
			diag.WarnUnknownPara(`\` + t.marker)
			emit(t.payload)
		}
	}
	if bb == nil {
		return nil, markup.NewMissingBook("document has no \\id marker")
	}
	return bb.Finish(), nil
}

func leadingInt(s string) int {
	n, _ := splitLeadingInt(strings.TrimLeft(s, " "))
	return n
}

func splitLeadingInt(s string) (int, string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	n := 0
	for _, r := range s[:i] {
		n = n*10 + int(r-'0')
	}
	return n, s[i:]
}

func callerOf(payload string) *string {
	c := strings.TrimSpace(payload)
	if c == "" {
		return nil
	}
	return &c
}
