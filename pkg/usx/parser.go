// Package usx parses the USX (XML) scripture markup family into the
// package markup parse tree, using github.com/antchfx/xmlquery's node
// cursor as the sibling-and-cousin traversal the format needs: a verse can
// open inside one <para> and close inside the next, so the open-verse
// pointer lives on the ChapterBuilder rather than on any one node.
package usx

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/averyhale/versetree/pkg/markup"
)

// ignoreStyles is the documented set of USX <para> styles that produce no
// output (introductory paragraphs, running heads/footers, parallel refs).
var ignoreStyles = map[string]bool{}

func init() {
	for _, s := range strings.Fields(
		"ide rem h h1 h2 h3 h4 toc1 toc2 toc3 toca1 toca2 toca3 imt imt1 imt2 imt3 imt4 " +
			"is is1 is2 is3 is4 ip ipi im imi ipq imq ipr iq iq1 iq2 iq3 iq4 ib ili ili1 ili2 ili3 ili4 " +
			"iot io io1 io2 io3 io4 iex imte ie mt mt1 mt2 mt3 mt4 mte mte1 mte2 mte3 mte4 cl cd r",
	) {
		ignoreStyles[s] = true
	}
}

var poemStyle = regexp.MustCompile(`^q([1-4])$`)

// Parse parses a USX document into a markup.Book, recording any non-fatal
// diagnostics into sink (nil discards them).
func Parse(content []byte, sink *markup.Sink) (*markup.Book, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, markup.NewParseError(err.Error(), "document")
	}

	root := firstElement(doc)
	if root == nil {
		return nil, markup.NewParseError("no root element", "document")
	}

	var bb *markup.BookBuilder
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}
		switch child.Data {
		case "book":
			code := child.SelectAttr("code")
			if code == "" {
				return nil, markup.NewMissingBook("<book> element missing code attribute")
			}
			bb = markup.NewBookBuilder(code)
		case "chapter":
			if bb == nil {
				return nil, markup.NewMissingBook("<chapter> encountered before <book>")
			}
			if child.SelectAttr("eid") != "" {
				continue // end milestone, nothing to do
			}
			num := atoiOr(child.SelectAttr("number"), 0)
			bb.StartChapter(num)
		case "para":
			if bb == nil {
				return nil, markup.NewMissingBook("<para> encountered before <book>")
			}
			processPara(bb, child, sink)
		}
	}
	if bb == nil {
		return nil, markup.NewMissingBook("document has no <book> element")
	}
	return bb.Finish(), nil
}

func firstElement(n *xmlquery.Node) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	return nil
}

func processPara(bb *markup.BookBuilder, para *xmlquery.Node, sink *markup.Sink) {
	style := para.SelectAttr("style")

	if !bb.InChapter() {
		switch style {
		case "h":
			bb.SetHeader(strings.TrimSpace(para.InnerText()))
		case "mt1", "mt2", "mt3":
			bb.AddTitlePart(strings.TrimSpace(para.InnerText()))
		case "s1", "s2", "s3", "s4":
			bb.AddPreChapterHeading(strings.TrimSpace(para.InnerText()))
		}
		return
	}

	cb := bb.Chapter()
	switch {
	case style == "s1" || style == "s2" || style == "s3" || style == "s4":
		cb.AppendHeading(strings.TrimSpace(para.InnerText()))
	case style == "b":
		cb.AppendLineBreak()
	case style == "d":
		cb.OpenSubtitle()
		walkInline(cb, para, 0, false, sink)
	case ignoreStyles[style]:
		// no output
	default:
		poem := 0
		if m := poemStyle.FindStringSubmatch(style); m != nil {
			poem = int(m[1][0] - '0')
		} else if style != "p" && style != "m" && style != "pc" && style != "" {
			sink.WarnUnknownPara(style)
		}
		walkInline(cb, para, poem, false, sink)
	}
}

// walkInline streams a <para>'s children into the chapter builder's
// currently open verse/subtitle, opening and closing verses as <verse>
// milestones are encountered. poem/wj carry the enclosing formatting
// context down into nested <char> elements.
func walkInline(cb *markup.ChapterBuilder, n *xmlquery.Node, poem int, wj bool, sink *markup.Sink) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			cb.Emit(c.Data, poem, wj)
		case xmlquery.ElementNode:
			switch c.Data {
			case "verse":
				if eid := c.SelectAttr("eid"); eid != "" {
					cb.CloseOpen()
					continue
				}
				num := atoiOr(c.SelectAttr("number"), 0)
				if last := cb.LastVerseNumber(); last != 0 && num <= last {
					sink.WarnVerseRegression(
						fmt.Sprintf("verse %d follows verse %d", num, last),
						fmt.Sprintf("chapter %d", cb.Number()),
					)
				}
				cb.OpenVerse(num)
			case "char":
				style := c.SelectAttr("style")
				if style == "wj" {
					walkInline(cb, c, poem, true, sink)
				} else {
					walkInline(cb, c, poem, wj, sink)
				}
			case "note":
				processNote(cb, c, sink)
			default:
				walkInline(cb, c, poem, wj, sink)
			}
		}
	}
}

func processNote(cb *markup.ChapterBuilder, n *xmlquery.Node, sink *markup.Sink) {
	if n.SelectAttr("style") != "f" {
		sink.WarnDroppedNote(n.SelectAttr("style"))
		return
	}
	text := markup.StripLeadingReference(strings.TrimSpace(n.InnerText()))
	var caller *string
	if c := n.SelectAttr("caller"); c != "" {
		caller = &c
	}
	id := cb.AllocNoteID()
	cb.AddFootnote(markup.Footnote{
		NoteID: id,
		Caller: caller,
		Text:   text,
		Reference: markup.Reference{
			Chapter: cb.Number(),
			Verse:   cb.CurrentVerse(),
		},
	})
	cb.EmitItem(&markup.FootnoteRef{Type: "footnote_reference", NoteID: id})
}

func atoiOr(s string, fallback int) int {
	n := 0
	seen := false
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		seen = true
	}
	if !seen {
		return fallback
	}
	return n
}
