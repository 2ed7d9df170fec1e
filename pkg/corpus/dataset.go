package corpus

import (
	"sort"

	"github.com/averyhale/versetree/pkg/markup"
)

// TranslationMetadata is the input metadata describing one translation.
type TranslationMetadata struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	EnglishName string `json:"englishName"`
	ShortName   string `json:"shortName"`
	Language    string `json:"language"`
	Direction   string `json:"direction,omitempty"`
	LicenseURL  string `json:"licenseUrl,omitempty"`
	Website     string `json:"website,omitempty"`
}

func (m TranslationMetadata) validate() error {
	switch {
	case m.ID == "":
		return markup.NewMissingMetadata("id")
	case m.Name == "":
		return markup.NewMissingMetadata("name")
	case m.EnglishName == "":
		return markup.NewMissingMetadata("englishName")
	case m.ShortName == "":
		return markup.NewMissingMetadata("shortName")
	case m.Language == "":
		return markup.NewMissingMetadata("language")
	}
	return nil
}

// TranslationInput pairs one translation's metadata with its parsed books,
// in whatever order the caller parsed them.
type TranslationInput struct {
	Metadata TranslationMetadata
	Books    []*markup.Book
}

// BookEntry is one book, ordered and enriched with canon data, within an
// assembled translation.
type BookEntry struct {
	ID               string
	Name             string
	CommonName       string
	Title            string
	Order            int
	NumberOfChapters int
	Parsed           *markup.Book
}

// Translation is one translation's metadata plus its canon-ordered books.
type Translation struct {
	Metadata TranslationMetadata
	Books    []BookEntry
}

// Dataset owns every translation produced by a generation run, in the
// order they were supplied.
type Dataset struct {
	Translations []Translation
}

// BuildDataset groups parsed books by translation, assigns canonical
// ordering, and validates translation metadata and book identity. It also
// records a WarnEmptyBook for any book that parsed with zero chapters, the
// one diagnostic only visible once every chapter a book produced is known.
// A nil sink discards it, same as anywhere else in the pipeline.
func BuildDataset(inputs []TranslationInput, sink *markup.Sink) (*Dataset, error) {
	ds := &Dataset{Translations: make([]Translation, 0, len(inputs))}

	for _, in := range inputs {
		if err := in.Metadata.validate(); err != nil {
			return nil, err
		}

		seen := make(map[string]bool, len(in.Books))
		entries := make([]BookEntry, 0, len(in.Books))
		for _, book := range in.Books {
			if seen[book.ID] {
				return nil, markup.NewDuplicateBook(in.Metadata.ID, book.ID)
			}
			seen[book.ID] = true

			canonEntry, ok := Canon[book.ID]
			if !ok {
				return nil, markup.NewUnknownBook(book.ID)
			}

			title := book.Title
			if title == "" {
				title = canonEntry.CommonName
			}

			numChapters := countChapters(book)
			if numChapters == 0 {
				sink.WarnEmptyBook(book.ID)
			}

			entries = append(entries, BookEntry{
				ID:               book.ID,
				Name:             canonEntry.Name,
				CommonName:       canonEntry.CommonName,
				Title:            title,
				Order:            canonEntry.Order,
				NumberOfChapters: numChapters,
				Parsed:           book,
			})
		}

		sort.Slice(entries, func(i, j int) bool { return entries[i].Order < entries[j].Order })

		ds.Translations = append(ds.Translations, Translation{
			Metadata: in.Metadata,
			Books:    entries,
		})
	}

	return ds, nil
}

func countChapters(book *markup.Book) int {
	n := 0
	for _, item := range book.Content {
		if _, ok := item.(*markup.ChapterRoot); ok {
			n++
		}
	}
	return n
}
