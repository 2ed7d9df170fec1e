package corpus

import (
	"fmt"
	"strings"

	"github.com/averyhale/versetree/pkg/markup"
)

// Options parameterizes API generation.
type Options struct {
	// UseCommonName selects the book URL path segment: CommonName (spaces
	// replaced with underscores) when true, the 3-letter ID otherwise.
	UseCommonName bool
}

// ReplaceSpacesWithUnderscores replaces every ASCII space with '_'. No
// other code points are touched or escaped.
func ReplaceSpacesWithUnderscores(s string) string {
	return strings.ReplaceAll(s, " ", "_")
}

// TranslationOut is the Translation object's wire shape.
type TranslationOut struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	EnglishName        string   `json:"englishName"`
	ShortName          string   `json:"shortName"`
	Language           string   `json:"language"`
	LicenseURL         string   `json:"licenseUrl,omitempty"`
	Website            string   `json:"website,omitempty"`
	TextDirection      string   `json:"textDirection"`
	AvailableFormats   []string `json:"availableFormats"`
	ListOfBooksAPILink string   `json:"listOfBooksApiLink"`
}

// BookSummary is one entry in a translation's books.json listing.
type BookSummary struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	CommonName          string `json:"commonName"`
	Title               string `json:"title"`
	NumberOfChapters    int    `json:"numberOfChapters"`
	Order               int    `json:"order"`
	FirstChapterAPILink string `json:"firstChapterApiLink"`
	LastChapterAPILink  string `json:"lastChapterApiLink"`
}

// BooksIndex is the /api/{t}/books.json document.
type BooksIndex struct {
	Translation TranslationOut `json:"translation"`
	Books       []BookSummary  `json:"books"`
}

// ChapterPage is the /api/{t}/{book}/{n}.json document.
type ChapterPage struct {
	Translation               TranslationOut      `json:"translation"`
	Book                      BookSummary         `json:"book"`
	Chapter                   *markup.ChapterRoot `json:"chapter"`
	ThisChapterLink           string              `json:"thisChapterLink"`
	ThisChapterAudioLinks     map[string]string   `json:"thisChapterAudioLinks"`
	NextChapterAPILink        *string             `json:"nextChapterApiLink"`
	NextChapterAudioLinks     map[string]string   `json:"nextChapterAudioLinks"`
	PreviousChapterAPILink    *string             `json:"previousChapterApiLink"`
	PreviousChapterAudioLinks map[string]string   `json:"previousChapterAudioLinks"`
}

// AvailableTranslations is the /api/available_translations.json document.
type AvailableTranslations struct {
	Translations []TranslationOut `json:"translations"`
}

// Graph is the full logical object graph produced by GenerateAPI, ready
// for the file materializer to flatten into (path, content) pairs.
type Graph struct {
	AvailableTranslations AvailableTranslations
	PerTranslation        []TranslationGraph
}

// TranslationGraph is one translation's books index plus its chapter pages
// in canonical order.
type TranslationGraph struct {
	TranslationID string
	BooksIndex    BooksIndex
	BooksPath     string
	Chapters      []ChapterEntry
}

// ChapterEntry pairs a materialized chapter page with its output path.
type ChapterEntry struct {
	Path string
	Page ChapterPage
}

func translationOut(m TranslationMetadata) TranslationOut {
	direction := m.Direction
	if direction == "" {
		direction = "ltr"
	}
	return TranslationOut{
		ID:                 m.ID,
		Name:               m.Name,
		EnglishName:        m.EnglishName,
		ShortName:          m.ShortName,
		Language:           m.Language,
		LicenseURL:         m.LicenseURL,
		Website:            m.Website,
		TextDirection:      direction,
		AvailableFormats:   []string{"json"},
		ListOfBooksAPILink: fmt.Sprintf("/api/%s/books.json", m.ID),
	}
}

func bookSegment(b BookEntry, opts Options) string {
	if opts.UseCommonName {
		return ReplaceSpacesWithUnderscores(b.CommonName)
	}
	return b.ID
}

func chapterPath(translationID string, b BookEntry, chapterNumber int, opts Options) string {
	return fmt.Sprintf("/api/%s/%s/%d.json", translationID, bookSegment(b, opts), chapterNumber)
}

// GenerateAPI produces the full logical object graph for a dataset.
func GenerateAPI(ds *Dataset, opts Options) *Graph {
	g := &Graph{}

	type flatChapter struct {
		translationIdx int
		bookIdx        int
		chapter        *markup.ChapterRoot
	}
	var flat []flatChapter

	for ti, t := range ds.Translations {
		out := translationOut(t.Metadata)
		g.AvailableTranslations.Translations = append(g.AvailableTranslations.Translations, out)

		tg := TranslationGraph{
			TranslationID: t.Metadata.ID,
			BooksPath:     fmt.Sprintf("/api/%s/books.json", t.Metadata.ID),
		}
		tg.BooksIndex.Translation = out

		for bi, b := range t.Books {
			chapters := chaptersOf(b.Parsed)
			var first, last string
			if len(chapters) > 0 {
				first = chapterPath(t.Metadata.ID, b, chapters[0].Number, opts)
				last = chapterPath(t.Metadata.ID, b, chapters[len(chapters)-1].Number, opts)
			}
			tg.BooksIndex.Books = append(tg.BooksIndex.Books, BookSummary{
				ID:                  b.ID,
				Name:                b.Name,
				CommonName:          b.CommonName,
				Title:               b.Title,
				NumberOfChapters:    b.NumberOfChapters,
				Order:               b.Order,
				FirstChapterAPILink: first,
				LastChapterAPILink:  last,
			})

			for _, ch := range chapters {
				flat = append(flat, flatChapter{translationIdx: ti, bookIdx: bi, chapter: ch})
			}
		}
		g.PerTranslation = append(g.PerTranslation, tg)
	}

	// Next/previous linearization is per-translation; walk flat and link
	// only within matching translationIdx runs.
	for i, fc := range flat {
		t := ds.Translations[fc.translationIdx]
		b := t.Books[fc.bookIdx]
		tg := &g.PerTranslation[fc.translationIdx]
		out := tg.BooksIndex.Translation
		bs := tg.BooksIndex.Books[fc.bookIdx]

		page := ChapterPage{
			Translation:           out,
			Book:                  bs,
			Chapter:               fc.chapter,
			ThisChapterLink:       chapterPath(t.Metadata.ID, b, fc.chapter.Number, opts),
			ThisChapterAudioLinks: map[string]string{},
		}

		if i > 0 && flat[i-1].translationIdx == fc.translationIdx {
			prev := flat[i-1]
			prevB := t.Books[prev.bookIdx]
			link := chapterPath(t.Metadata.ID, prevB, prev.chapter.Number, opts)
			page.PreviousChapterAPILink = &link
			page.PreviousChapterAudioLinks = map[string]string{}
		}
		if i+1 < len(flat) && flat[i+1].translationIdx == fc.translationIdx {
			next := flat[i+1]
			nextB := t.Books[next.bookIdx]
			link := chapterPath(t.Metadata.ID, nextB, next.chapter.Number, opts)
			page.NextChapterAPILink = &link
			page.NextChapterAudioLinks = map[string]string{}
		}

		tg.Chapters = append(tg.Chapters, ChapterEntry{Path: page.ThisChapterLink, Page: page})
	}

	return g
}

func chaptersOf(b *markup.Book) []*markup.ChapterRoot {
	var out []*markup.ChapterRoot
	for _, item := range b.Content {
		if ch, ok := item.(*markup.ChapterRoot); ok {
			out = append(out, ch)
		}
	}
	return out
}
