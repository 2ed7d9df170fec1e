package markup

import (
	"encoding/json"
	"testing"
)

func TestBookRoundTripsThroughJSON(t *testing.T) {
	caller := "+"
	original := &Book{
		ID:    "GEN",
		Title: "The First Book of Moses, Called Genesis",
		Content: []RootItem{
			&HeadingRoot{Type: "heading", Content: []string{"The Creation"}},
			&ChapterRoot{
				Type:   "chapter",
				Number: 1,
				Content: []ChapterContent{
					&Heading{Type: "heading", Content: []string{"In the beginning"}},
					&LineBreak{Type: "line_break"},
					&HebrewSubtitle{Type: "hebrew_subtitle", Content: []InlineItem{PlainText("A subtitle")}},
					&Verse{
						Type:   "verse",
						Number: 1,
						Content: []InlineItem{
							PlainText("In the beginning "),
							&StyledText{Type: "text", Text: "God created", Poem: 1, WordsOfJesus: true},
							&FootnoteRef{Type: "footnote_reference", NoteID: 0},
						},
					},
				},
				Footnotes: []Footnote{
					{NoteID: 0, Caller: &caller, Text: "a note", Reference: Reference{Chapter: 1, Verse: 1}},
				},
			},
		},
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Book
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.ID != original.ID || decoded.Title != original.Title {
		t.Fatalf("book identity mismatch: %#v", decoded)
	}
	if len(decoded.Content) != 2 {
		t.Fatalf("expected 2 root items, got %d", len(decoded.Content))
	}
	if _, ok := decoded.Content[0].(*HeadingRoot); !ok {
		t.Errorf("expected first root item to be *HeadingRoot, got %T", decoded.Content[0])
	}
	ch, ok := decoded.Content[1].(*ChapterRoot)
	if !ok {
		t.Fatalf("expected second root item to be *ChapterRoot, got %T", decoded.Content[1])
	}
	if ch.Number != 1 || len(ch.Content) != 4 {
		t.Fatalf("unexpected chapter shape: %#v", ch)
	}
	if _, ok := ch.Content[0].(*Heading); !ok {
		t.Errorf("expected Content[0] to be *Heading, got %T", ch.Content[0])
	}
	if _, ok := ch.Content[1].(*LineBreak); !ok {
		t.Errorf("expected Content[1] to be *LineBreak, got %T", ch.Content[1])
	}
	sub, ok := ch.Content[2].(*HebrewSubtitle)
	if !ok || len(sub.Content) != 1 || sub.Content[0] != PlainText("A subtitle") {
		t.Fatalf("unexpected subtitle: %#v", ch.Content[2])
	}
	verse, ok := ch.Content[3].(*Verse)
	if !ok || verse.Number != 1 {
		t.Fatalf("expected verse 1, got %#v", ch.Content[3])
	}
	if len(verse.Content) != 3 {
		t.Fatalf("expected 3 inline items, got %d", len(verse.Content))
	}
	if verse.Content[0] != PlainText("In the beginning ") {
		t.Errorf("expected bare-string PlainText decoding, got %#v", verse.Content[0])
	}
	st, ok := verse.Content[1].(*StyledText)
	if !ok || st.Poem != 1 || !st.WordsOfJesus {
		t.Errorf("unexpected styled text: %#v", verse.Content[1])
	}
	ref, ok := verse.Content[2].(*FootnoteRef)
	if !ok || ref.NoteID != 0 {
		t.Errorf("unexpected footnote ref: %#v", verse.Content[2])
	}
	if len(ch.Footnotes) != 1 || ch.Footnotes[0].Text != "a note" {
		t.Fatalf("unexpected footnotes: %#v", ch.Footnotes)
	}
}

func TestBookUnmarshalRejectsUnknownType(t *testing.T) {
	var book Book
	err := json.Unmarshal([]byte(`{"id":"GEN","content":[{"type":"bogus"}]}`), &book)
	if err == nil {
		t.Fatal("expected error for unrecognized root item type")
	}
}
