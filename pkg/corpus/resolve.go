package corpus

import (
	"fmt"

	"github.com/julianstephens/canonref/bibleref"
	"github.com/julianstephens/canonref/util"

	"github.com/averyhale/versetree/pkg/markup"
)

// Resolved is the result of resolving a reference against an assembled
// Dataset, grounded on the teacher's kjvcorpus.Resolved: it carries the
// containing chapter plus whichever verses/footnotes the reference named.
type Resolved struct {
	Ref       *bibleref.BibleRef
	BookName  string
	Chapter   *markup.ChapterRoot
	Verses    []*markup.Verse
	Footnotes []markup.Footnote
}

// Table builds a canonref bibleref.Table over one translation's books, for
// alias-aware reference resolution (e.g. accepting "1 Chronicles" as well
// as "1CH").
func Table(t Translation) (*bibleref.Table, error) {
	books := make([]bibleref.Book, len(t.Books))
	for i, b := range t.Books {
		books[i] = bibleref.Book{
			OSIS:      b.ID,
			Name:      b.Name,
			Aliases:   []string{b.CommonName},
			Testament: testamentOf(b.Order),
			Order:     b.Order,
			Chapters:  b.NumberOfChapters,
		}
	}
	return bibleref.NewTable(books)
}

// TableFromBookSummaries builds a bibleref.Table directly from an already
// materialized books.json listing, so the lookup CLI can resolve references
// against an output tree without re-parsing the source corpus.
func TableFromBookSummaries(summaries []BookSummary) (*bibleref.Table, error) {
	books := make([]bibleref.Book, len(summaries))
	for i, b := range summaries {
		books[i] = bibleref.Book{
			OSIS:      b.ID,
			Name:      b.Name,
			Aliases:   []string{b.CommonName},
			Testament: testamentOf(b.Order),
			Order:     b.Order,
			Chapters:  b.NumberOfChapters,
		}
	}
	return bibleref.NewTable(books)
}

func testamentOf(order int) string {
	if order <= 39 {
		return "OT"
	}
	return "NT"
}

// Resolve looks up a translation by ID, finds the referenced chapter, and
// extracts the requested verses and their footnotes, mirroring
// Corpus.Resolve/extractVerses/extractFootnotes from pkg/kjvcorpus, adapted
// from an on-disk chapter cache to an in-memory Dataset walk.
func Resolve(ds *Dataset, translationID string, ref *bibleref.BibleRef) (*Resolved, error) {
	var translation *Translation
	for i := range ds.Translations {
		if ds.Translations[i].Metadata.ID == translationID {
			translation = &ds.Translations[i]
			break
		}
	}
	if translation == nil {
		return nil, &markup.Error{Kind: markup.KindMissingMetadata, Field: "translation", Detail: translationID}
	}

	var book *BookEntry
	for i := range translation.Books {
		if translation.Books[i].ID == ref.OSIS {
			book = &translation.Books[i]
			break
		}
	}
	if book == nil {
		return nil, markup.NewUnknownBook(ref.OSIS)
	}

	chapterNum := ref.Chapter
	if chapterNum == 0 {
		chapterNum = 1
	}

	var chapter *markup.ChapterRoot
	for _, ch := range chaptersOf(book.Parsed) {
		if ch.Number == chapterNum {
			chapter = ch
			break
		}
	}
	if chapter == nil {
		return nil, markup.NewParseError(fmt.Sprintf("chapter %d not found in %s", chapterNum, book.ID), book.ID)
	}

	verses := ExtractVerses(chapter, ref.Verse)
	footnotes := ExtractFootnotes(chapter, verses)

	return &Resolved{
		Ref:       ref,
		BookName:  book.Name,
		Chapter:   chapter,
		Verses:    verses,
		Footnotes: footnotes,
	}, nil
}

// ExtractVerses returns every verse in chapter, or just those within
// verseRange when it is non-nil.
func ExtractVerses(chapter *markup.ChapterRoot, verseRange *util.VerseRange) []*markup.Verse {
	var all []*markup.Verse
	for _, item := range chapter.Content {
		if v, ok := item.(*markup.Verse); ok {
			all = append(all, v)
		}
	}
	if verseRange == nil {
		return all
	}

	start := verseRange.StartVerse
	end := start
	if verseRange.EndVerse != nil {
		end = *verseRange.EndVerse
	}

	var out []*markup.Verse
	for _, v := range all {
		if v.Number >= start && v.Number <= end {
			out = append(out, v)
		}
	}
	return out
}

// ExtractFootnotes returns the footnotes in chapter anchored to any of verses.
func ExtractFootnotes(chapter *markup.ChapterRoot, verses []*markup.Verse) []markup.Footnote {
	if len(chapter.Footnotes) == 0 {
		return nil
	}
	wanted := make(map[int]bool, len(verses))
	for _, v := range verses {
		wanted[v.Number] = true
	}
	var out []markup.Footnote
	for _, fn := range chapter.Footnotes {
		if wanted[fn.Reference.Verse] {
			out = append(out, fn)
		}
	}
	return out
}
