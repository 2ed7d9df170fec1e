package markup

import "strings"

// ChapterBuilder is the explicit cursor described in the design notes: it
// owns the currently-open verse pointer and the per-chapter footnote
// counter, and is the single place both parsers mutate chapter state. It is
// not exposed outside a single parser invocation.
type ChapterBuilder struct {
	chapter   *ChapterRoot
	openVerse *Verse
	openSub   *HebrewSubtitle
	verseNum  int
	noteSeq   int
}

// NewChapterBuilder starts a new chapter with the given milestone number.
func NewChapterBuilder(number int) *ChapterBuilder {
	return &ChapterBuilder{chapter: &ChapterRoot{Type: "chapter", Number: number}}
}

// Number returns the chapter's milestone number.
func (cb *ChapterBuilder) Number() int { return cb.chapter.Number }

// CurrentVerse returns the verse number currently open, or 0 if none.
func (cb *ChapterBuilder) CurrentVerse() int {
	if cb.openVerse != nil {
		return cb.verseNum
	}
	return 0
}

// LastVerseNumber returns the most recently opened verse's number, whether
// or not it is still open, or 0 if no verse has been opened yet in this
// chapter. Callers use it to detect a verse number that fails to strictly
// increase in emission order.
func (cb *ChapterBuilder) LastVerseNumber() int {
	return cb.verseNum
}

// OpenVerse closes any currently open verse/subtitle and opens verse n.
func (cb *ChapterBuilder) OpenVerse(n int) {
	cb.CloseOpen()
	v := &Verse{Type: "verse", Number: n}
	cb.chapter.Content = append(cb.chapter.Content, v)
	cb.openVerse = v
	cb.verseNum = n
}

// OpenSubtitle closes any currently open verse/subtitle and opens a Hebrew
// subtitle, returning it so the caller can stream content into it via
// Emit/EmitItem (which route to whichever of openVerse/openSub is set).
func (cb *ChapterBuilder) OpenSubtitle() *HebrewSubtitle {
	cb.CloseOpen()
	hs := &HebrewSubtitle{Type: "hebrew_subtitle"}
	cb.chapter.Content = append(cb.chapter.Content, hs)
	cb.openSub = hs
	return hs
}

// CloseOpen finalizes whichever of verse/subtitle is currently open,
// applying the trim normalization rule.
func (cb *ChapterBuilder) CloseOpen() {
	if cb.openVerse != nil {
		cb.openVerse.Content = trimInline(cb.openVerse.Content)
		cb.openVerse = nil
	}
	if cb.openSub != nil {
		cb.openSub.Content = trimInline(cb.openSub.Content)
		cb.openSub = nil
	}
}

// AppendHeading closes any open verse/subtitle and appends a section heading.
func (cb *ChapterBuilder) AppendHeading(text string) {
	cb.CloseOpen()
	cb.chapter.Content = append(cb.chapter.Content, &Heading{Type: "heading", Content: []string{text}})
}

// AppendLineBreak closes any open verse/subtitle and appends a blank line.
func (cb *ChapterBuilder) AppendLineBreak() {
	cb.CloseOpen()
	cb.chapter.Content = append(cb.chapter.Content, &LineBreak{Type: "line_break"})
}

// Emit streams a text fragment into whichever of verse/subtitle is open. A
// no-op if neither is open (content preceding the first verse of a chapter
// has nowhere to attach).
func (cb *ChapterBuilder) Emit(raw string, poem int, wordsOfJesus bool) {
	text := collapseWhitespace(raw)
	if text == "" {
		return
	}
	item := makeInline(text, poem, wordsOfJesus)
	switch {
	case cb.openVerse != nil:
		cb.openVerse.Content = appendInline(cb.openVerse.Content, item)
	case cb.openSub != nil:
		cb.openSub.Content = appendInline(cb.openSub.Content, item)
	}
}

// EmitItem appends a non-text inline item (a footnote reference) to
// whichever of verse/subtitle is open.
func (cb *ChapterBuilder) EmitItem(item InlineItem) {
	switch {
	case cb.openVerse != nil:
		cb.openVerse.Content = appendInline(cb.openVerse.Content, item)
	case cb.openSub != nil:
		cb.openSub.Content = appendInline(cb.openSub.Content, item)
	}
}

// AllocNoteID returns the next monotonic footnote ID for this chapter.
func (cb *ChapterBuilder) AllocNoteID() int {
	id := cb.noteSeq
	cb.noteSeq++
	return id
}

// AddFootnote appends a resolved footnote to the chapter's footnote list.
func (cb *ChapterBuilder) AddFootnote(fn Footnote) {
	cb.chapter.Footnotes = append(cb.chapter.Footnotes, fn)
}

// Finish closes any open verse/subtitle and returns the completed chapter.
func (cb *ChapterBuilder) Finish() *ChapterRoot {
	cb.CloseOpen()
	return cb.chapter
}

// BookBuilder accumulates root items (pre-chapter headings and chapters) in
// document order while a parser walks its source.
type BookBuilder struct {
	book       *Book
	titleParts []string
	chapter    *ChapterBuilder
}

// NewBookBuilder starts a book with the given 3-letter code.
func NewBookBuilder(id string) *BookBuilder {
	return &BookBuilder{book: &Book{ID: id}}
}

// SetHeader records the book's running-header text.
func (bb *BookBuilder) SetHeader(h string) { bb.book.Header = h }

// AddTitlePart appends one major-title fragment (mt1/mt2/mt3); the final
// title is these parts joined by a single space.
func (bb *BookBuilder) AddTitlePart(part string) {
	if part != "" {
		bb.titleParts = append(bb.titleParts, part)
	}
}

// InChapter reports whether a chapter is currently open.
func (bb *BookBuilder) InChapter() bool { return bb.chapter != nil }

// Chapter returns the currently open chapter builder, or nil.
func (bb *BookBuilder) Chapter() *ChapterBuilder { return bb.chapter }

// AddPreChapterHeading appends a root-level heading (before chapter 1).
func (bb *BookBuilder) AddPreChapterHeading(text string) {
	bb.book.Content = append(bb.book.Content, &HeadingRoot{Type: "heading", Content: []string{text}})
}

// StartChapter closes any open chapter and opens a new one at number n.
func (bb *BookBuilder) StartChapter(n int) *ChapterBuilder {
	bb.closeChapter()
	bb.chapter = NewChapterBuilder(n)
	return bb.chapter
}

func (bb *BookBuilder) closeChapter() {
	if bb.chapter != nil {
		bb.book.Content = append(bb.book.Content, bb.chapter.Finish())
		bb.chapter = nil
	}
}

// Finish closes any open chapter, assembles the title, and returns the book.
func (bb *BookBuilder) Finish() *Book {
	bb.closeChapter()
	bb.book.Title = strings.Join(bb.titleParts, " ")
	return bb.book
}
