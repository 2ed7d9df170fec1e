package markup

import "testing"

func TestChapterBuilderVerseLifecycle(t *testing.T) {
	cb := NewChapterBuilder(1)

	cb.OpenVerse(1)
	cb.Emit("In the beginning God created the heavens and the earth.", 0, false)
	if got := cb.CurrentVerse(); got != 1 {
		t.Fatalf("CurrentVerse() = %d, want 1", got)
	}

	cb.OpenVerse(2)
	cb.Emit("Now the earth was formless and void.", 0, false)

	chapter := cb.Finish()
	if chapter.Number != 1 {
		t.Fatalf("chapter number = %d, want 1", chapter.Number)
	}
	if len(chapter.Content) != 2 {
		t.Fatalf("expected 2 verses, got %d", len(chapter.Content))
	}

	v1, ok := chapter.Content[0].(*Verse)
	if !ok || v1.Number != 1 {
		t.Fatalf("expected verse 1 first, got %#v", chapter.Content[0])
	}
	v2, ok := chapter.Content[1].(*Verse)
	if !ok || v2.Number != 2 {
		t.Fatalf("expected verse 2 second, got %#v", chapter.Content[1])
	}
}

func TestChapterBuilderOpenVerseClosesPrevious(t *testing.T) {
	cb := NewChapterBuilder(1)
	cb.OpenVerse(1)
	cb.Emit("  trailing space to be trimmed  ", 0, false)
	cb.OpenVerse(2)

	chapter := cb.Finish()
	v1 := chapter.Content[0].(*Verse)
	if len(v1.Content) != 1 {
		t.Fatalf("expected one trimmed entry, got %#v", v1.Content)
	}
	if v1.Content[0] != PlainText("trailing space to be trimmed") {
		t.Errorf("verse 1 content not trimmed: %#v", v1.Content[0])
	}
}

func TestChapterBuilderSubtitleRoutesEmit(t *testing.T) {
	cb := NewChapterBuilder(3)
	sub := cb.OpenSubtitle()
	cb.Emit("A Psalm of David.", 0, false)

	chapter := cb.Finish()
	if len(chapter.Content) != 1 {
		t.Fatalf("expected one content item, got %d", len(chapter.Content))
	}
	if sub.Content[0] != PlainText("A Psalm of David.") {
		t.Errorf("subtitle content wrong: %#v", sub.Content)
	}
}

func TestChapterBuilderEmitNoOpWithoutOpenVerse(t *testing.T) {
	cb := NewChapterBuilder(1)
	cb.Emit("orphaned text before any verse", 0, false)
	chapter := cb.Finish()
	if len(chapter.Content) != 0 {
		t.Errorf("expected text preceding the first verse to be dropped, got %#v", chapter.Content)
	}
}

func TestChapterBuilderFootnoteIDsMonotonic(t *testing.T) {
	cb := NewChapterBuilder(1)
	first := cb.AllocNoteID()
	second := cb.AllocNoteID()
	if first != 0 || second != 1 {
		t.Errorf("expected sequential note ids starting at 0, got %d, %d", first, second)
	}
}

func TestBookBuilderTitleJoinsParts(t *testing.T) {
	bb := NewBookBuilder("GEN")
	bb.AddTitlePart("The First Book of Moses,")
	bb.AddTitlePart("Called Genesis")
	bb.SetHeader("Genesis")

	book := bb.Finish()
	if book.Title != "The First Book of Moses, Called Genesis" {
		t.Errorf("unexpected title: %q", book.Title)
	}
	if book.Header != "Genesis" {
		t.Errorf("unexpected header: %q", book.Header)
	}
}

func TestBookBuilderChaptersInOrder(t *testing.T) {
	bb := NewBookBuilder("GEN")
	bb.AddPreChapterHeading("The Creation")
	bb.StartChapter(1).OpenVerse(1)
	bb.StartChapter(2).OpenVerse(1)

	book := bb.Finish()
	if len(book.Content) != 3 {
		t.Fatalf("expected heading + 2 chapters, got %d", len(book.Content))
	}
	if _, ok := book.Content[0].(*HeadingRoot); !ok {
		t.Errorf("expected first item to be a heading, got %T", book.Content[0])
	}
	ch1, ok := book.Content[1].(*ChapterRoot)
	if !ok || ch1.Number != 1 {
		t.Errorf("expected chapter 1 second, got %#v", book.Content[1])
	}
	ch2, ok := book.Content[2].(*ChapterRoot)
	if !ok || ch2.Number != 2 {
		t.Errorf("expected chapter 2 third, got %#v", book.Content[2])
	}
}
