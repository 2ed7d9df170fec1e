package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/averyhale/versetree/pkg/corpus"
)

// LookupCmd resolves a reference string (e.g. "John 3:16" or "Genesis 1")
// against an already-materialized output tree, without re-parsing the
// source corpus: it reads the translation's books.json, builds a
// canonref table from it, and decodes the chapter page the reference
// names.
type LookupCmd struct {
	Out         string `help:"Materialized API tree to read" type:"existingdir" required:""`
	Translation string `help:"Translation id to resolve against" required:""`
	Ref         string `arg:"" help:"Scripture reference, e.g. \"John 3:16\""`
}

func (cmd *LookupCmd) Run() error {
	booksPath := filepath.Join(cmd.Out, "api", cmd.Translation, "books.json")
	data, err := os.ReadFile(booksPath) //nolint:gosec
	if err != nil {
		return fmt.Errorf("reading %s: %w", booksPath, err)
	}

	var index corpus.BooksIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return fmt.Errorf("parsing %s: %w", booksPath, err)
	}

	table, err := corpus.TableFromBookSummaries(index.Books)
	if err != nil {
		return fmt.Errorf("building reference table: %w", err)
	}

	ref, err := table.Parse(cmd.Ref)
	if err != nil {
		return fmt.Errorf("parsing reference %q: %w", cmd.Ref, err)
	}

	var summary *corpus.BookSummary
	for i := range index.Books {
		if index.Books[i].ID == ref.OSIS {
			summary = &index.Books[i]
			break
		}
	}
	if summary == nil {
		return fmt.Errorf("book %q not present in %s", ref.OSIS, booksPath)
	}

	chapter := ref.Chapter
	if chapter == 0 {
		chapter = 1
	}

	chapterPath := filepath.Join(cmd.Out, "api", cmd.Translation, summary.ID, fmt.Sprintf("%d.json", chapter))

	pageData, err := os.ReadFile(chapterPath) //nolint:gosec
	if err != nil {
		// The tree may have been materialized with common-name segments
		// instead of 3-letter codes; retry with that layout.
		altPath := filepath.Join(cmd.Out, "api", cmd.Translation, corpus.ReplaceSpacesWithUnderscores(summary.CommonName), fmt.Sprintf("%d.json", chapter))
		pageData, err = os.ReadFile(altPath) //nolint:gosec
		if err != nil {
			return fmt.Errorf("reading chapter file (tried %s and %s): %w", chapterPath, altPath, err)
		}
	}

	var page corpus.ChapterPage
	if err := json.Unmarshal(pageData, &page); err != nil {
		return fmt.Errorf("parsing chapter page: %w", err)
	}

	verses := corpus.ExtractVerses(page.Chapter, ref.Verse)
	footnotes := corpus.ExtractFootnotes(page.Chapter, verses)

	out, err := json.MarshalIndent(struct {
		Book      string      `json:"book"`
		Chapter   int         `json:"chapter"`
		Verses    interface{} `json:"verses"`
		Footnotes interface{} `json:"footnotes,omitempty"`
	}{
		Book:      summary.Name,
		Chapter:   chapter,
		Verses:    verses,
		Footnotes: footnotes,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	fmt.Println(string(out))
	return nil
}
