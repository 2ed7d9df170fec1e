package markup

import "testing"

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single spaces untouched", "a b c", "a b c"},
		{"newlines collapse", "a\n\nb", "a b"},
		{"tabs collapse", "a\t\tb", "a b"},
		{"mixed run collapses to one space", "a  \n\t b", "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collapseWhitespace(tt.in); got != tt.want {
				t.Errorf("collapseWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMakeInline(t *testing.T) {
	if item := makeInline("hello", 0, false); item != PlainText("hello") {
		t.Errorf("expected PlainText for unformatted text, got %#v", item)
	}

	st, ok := makeInline("blessed", 2, true).(*StyledText)
	if !ok {
		t.Fatalf("expected *StyledText for formatted text")
	}
	if st.Poem != 2 || !st.WordsOfJesus || st.Text != "blessed" {
		t.Errorf("unexpected StyledText: %#v", st)
	}
}

func TestAppendInlineCoalescesAdjacentRuns(t *testing.T) {
	// Scenario 4 from the spec: two consecutive q1 fragments in the same
	// verse merge into one text{poem:1} entry.
	var items []InlineItem
	items = appendInline(items, makeInline("In the beginning", 1, false))
	items = appendInline(items, makeInline(" God created", 1, false))

	if len(items) != 1 {
		t.Fatalf("expected one coalesced entry, got %d: %#v", len(items), items)
	}
	st, ok := items[0].(*StyledText)
	if !ok {
		t.Fatalf("expected *StyledText, got %T", items[0])
	}
	if st.Text != "In the beginning God created" {
		t.Errorf("unexpected coalesced text: %q", st.Text)
	}
}

func TestAppendInlineDoesNotCoalesceDifferentFormatting(t *testing.T) {
	// Scenario 3: "blessed" (wj) followed by " are the poor" (plain poem)
	// must stay as two entries since their formatting differs.
	var items []InlineItem
	items = appendInline(items, makeInline("blessed", 2, true))
	items = appendInline(items, makeInline(" are the poor", 2, false))

	if len(items) != 2 {
		t.Fatalf("expected two entries for differing formatting, got %d: %#v", len(items), items)
	}
}

func TestAppendInlinePlainTextCoalesces(t *testing.T) {
	var items []InlineItem
	items = appendInline(items, PlainText("hello"))
	items = appendInline(items, PlainText(" world"))
	if len(items) != 1 || items[0] != PlainText("hello world") {
		t.Fatalf("expected coalesced plain text, got %#v", items)
	}
}

func TestTrimInlineDropsEmptyAndTrimsEnds(t *testing.T) {
	items := []InlineItem{
		PlainText(""),
		PlainText(" leading and trailing "),
		&StyledText{Type: "text", Text: ""},
	}
	got := trimInline(items)

	if len(got) != 1 {
		t.Fatalf("expected empty entries dropped, got %d: %#v", len(got), got)
	}
	if got[0] != PlainText("leading and trailing") {
		t.Errorf("expected trimmed plain text, got %#v", got[0])
	}
}

func TestTrimInlineAllEmpty(t *testing.T) {
	items := []InlineItem{PlainText(""), PlainText("")}
	got := trimInline(items)
	if len(got) != 0 {
		t.Errorf("expected all-empty input to trim to nothing, got %#v", got)
	}
}

func TestStripLeadingReference(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1:1 In the beginning", "In the beginning"},
		{"12:345 text", "text"},
		{"no reference here", "no reference here"},
	}
	for _, tt := range tests {
		if got := StripLeadingReference(tt.in); got != tt.want {
			t.Errorf("StripLeadingReference(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
