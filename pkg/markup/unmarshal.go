package markup

import (
	"encoding/json"
	"fmt"
)

// UnmarshalJSON lets a Book round-trip through its own wire format, so a
// "json_parsed" input file (already a finished parse tree, per the
// classifier's contract) can be decoded straight into the shared types
// instead of being re-parsed.
func (b *Book) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID      string            `json:"id"`
		Header  string            `json:"header,omitempty"`
		Title   string            `json:"title,omitempty"`
		Content []json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	b.ID, b.Header, b.Title = wire.ID, wire.Header, wire.Title
	b.Content = make([]RootItem, 0, len(wire.Content))
	for _, raw := range wire.Content {
		item, err := decodeRootItem(raw)
		if err != nil {
			return err
		}
		b.Content = append(b.Content, item)
	}
	return nil
}

func typeOf(raw json.RawMessage) (string, error) {
	var tagged struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &tagged); err != nil {
		return "", err
	}
	return tagged.Type, nil
}

func decodeRootItem(raw json.RawMessage) (RootItem, error) {
	t, err := typeOf(raw)
	if err != nil {
		return nil, err
	}
	switch t {
	case "chapter":
		var ch ChapterRoot
		if err := json.Unmarshal(raw, &ch); err != nil {
			return nil, err
		}
		return &ch, nil
	case "heading":
		var h HeadingRoot
		if err := json.Unmarshal(raw, &h); err != nil {
			return nil, err
		}
		return &h, nil
	default:
		return nil, fmt.Errorf("markup: unknown root item type %q", t)
	}
}

// UnmarshalJSON decodes a chapter's own wire format, dispatching Content by
// its "type" discriminator.
func (c *ChapterRoot) UnmarshalJSON(data []byte) error {
	var wire struct {
		Type      string            `json:"type"`
		Number    int               `json:"number"`
		Content   []json.RawMessage `json:"content"`
		Footnotes []Footnote        `json:"footnotes"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	c.Type, c.Number, c.Footnotes = wire.Type, wire.Number, wire.Footnotes
	c.Content = make([]ChapterContent, 0, len(wire.Content))
	for _, raw := range wire.Content {
		item, err := decodeChapterContent(raw)
		if err != nil {
			return err
		}
		c.Content = append(c.Content, item)
	}
	return nil
}

func decodeChapterContent(raw json.RawMessage) (ChapterContent, error) {
	t, err := typeOf(raw)
	if err != nil {
		return nil, err
	}
	switch t {
	case "heading":
		var h Heading
		if err := json.Unmarshal(raw, &h); err != nil {
			return nil, err
		}
		return &h, nil
	case "line_break":
		var lb LineBreak
		if err := json.Unmarshal(raw, &lb); err != nil {
			return nil, err
		}
		return &lb, nil
	case "hebrew_subtitle":
		var hs HebrewSubtitle
		if err := json.Unmarshal(raw, &hs); err != nil {
			return nil, err
		}
		return &hs, nil
	case "verse":
		var v Verse
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return &v, nil
	default:
		return nil, fmt.Errorf("markup: unknown chapter content type %q", t)
	}
}

// UnmarshalJSON decodes a Hebrew subtitle, dispatching Content by the
// same inline-item rules as Verse.
func (hs *HebrewSubtitle) UnmarshalJSON(data []byte) error {
	var wire struct {
		Type    string            `json:"type"`
		Content []json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	hs.Type = wire.Type
	items, err := decodeInlineItems(wire.Content)
	if err != nil {
		return err
	}
	hs.Content = items
	return nil
}

// UnmarshalJSON decodes a verse, dispatching Content by each element's
// shape: a bare JSON string is PlainText, an object is StyledText or
// FootnoteRef depending on its "type" discriminator.
func (v *Verse) UnmarshalJSON(data []byte) error {
	var wire struct {
		Type    string            `json:"type"`
		Number  int               `json:"number"`
		Content []json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	v.Type, v.Number = wire.Type, wire.Number
	items, err := decodeInlineItems(wire.Content)
	if err != nil {
		return err
	}
	v.Content = items
	return nil
}

func decodeInlineItems(raws []json.RawMessage) ([]InlineItem, error) {
	out := make([]InlineItem, 0, len(raws))
	for _, raw := range raws {
		item, err := decodeInlineItem(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func decodeInlineItem(raw json.RawMessage) (InlineItem, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return PlainText(s), nil
	}

	t, err := typeOf(raw)
	if err != nil {
		return nil, err
	}
	switch t {
	case "text":
		var st StyledText
		if err := json.Unmarshal(raw, &st); err != nil {
			return nil, err
		}
		return &st, nil
	case "footnote_reference":
		var fr FootnoteRef
		if err := json.Unmarshal(raw, &fr); err != nil {
			return nil, err
		}
		return &fr, nil
	default:
		return nil, fmt.Errorf("markup: unknown inline item type %q", t)
	}
}
