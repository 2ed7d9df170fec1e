package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/averyhale/versetree/pkg/corpus"
	"github.com/averyhale/versetree/pkg/markup"
)

// VerifyCmd re-checks a materialized output tree against the invariants
// that generate is responsible for upholding: inline-content well-formedness,
// verse numbering, footnote reference integrity, next/previous chapter
// symmetry, and (if present) the SHA256MANIFEST's accuracy.
type VerifyCmd struct {
	Out string `help:"Materialized API tree to check" type:"existingdir" required:""`
}

func (cmd *VerifyCmd) Run() error {
	var problems []string

	avail, err := readAvailableTranslations(cmd.Out)
	if err != nil {
		return err
	}

	for _, t := range avail.Translations {
		booksPath := filepath.Join(cmd.Out, "api", t.ID, "books.json")
		var index corpus.BooksIndex
		if err := readJSON(booksPath, &index); err != nil {
			problems = append(problems, err.Error())
			continue
		}

		var chapters []chapterEntry

		for _, b := range index.Books {
			for n := 1; n <= b.NumberOfChapters; n++ {
				dest, err := chapterFilePath(cmd.Out, t.ID, b, n)
				if err != nil {
					problems = append(problems, err.Error())
					continue
				}
				var page corpus.ChapterPage
				if err := readJSON(dest, &page); err != nil {
					problems = append(problems, err.Error())
					continue
				}
				problems = append(problems, checkChapter(dest, page.Chapter)...)
				chapters = append(chapters, chapterEntry{path: dest, page: page})
			}
		}

		problems = append(problems, checkLinkSymmetry(chapters)...)
	}

	if manifestPath := filepath.Join(cmd.Out, "SHA256MANIFEST"); fileExists(manifestPath) {
		problems = append(problems, checkManifest(cmd.Out, manifestPath)...)
	}

	if len(problems) == 0 {
		fmt.Println("ok")
		return nil
	}
	for _, p := range problems {
		fmt.Println(p)
	}
	return fmt.Errorf("%d problem(s) found", len(problems))
}

// chapterFilePath locates chapter n's materialized file for book b without
// re-deriving the book's path segment: BooksIndex entries already carry that
// segment baked into FirstChapterAPILink (the 3-letter code, or the
// underscored common name when the tree was generated with
// --use-common-name), so this takes its directory rather than assuming it
// always equals b.ID the way an earlier version of this check did.
func chapterFilePath(outDir, translationID string, b corpus.BookSummary, n int) (string, error) {
	if b.FirstChapterAPILink == "" {
		return "", fmt.Errorf("book %s has no chapters to verify", b.ID)
	}
	segment := path.Base(path.Dir(b.FirstChapterAPILink))
	rel := fmt.Sprintf("api/%s/%s/%d.json", translationID, segment, n)
	return filepath.Join(outDir, filepath.FromSlash(rel)), nil
}

func readAvailableTranslations(dir string) (corpus.AvailableTranslations, error) {
	var avail corpus.AvailableTranslations
	err := readJSON(filepath.Join(dir, "api", "available_translations.json"), &avail)
	return avail, err
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// checkChapter verifies inline-content well-formedness, verse ordering, and
// footnote reference integrity within a single chapter.
func checkChapter(path string, ch *markup.ChapterRoot) []string {
	var problems []string
	if ch == nil {
		return []string{fmt.Sprintf("%s: chapter is nil", path)}
	}

	noteIDs := make(map[int]int, len(ch.Footnotes))
	for _, fn := range ch.Footnotes {
		noteIDs[fn.NoteID]++
	}

	lastVerse := 0
	for _, item := range ch.Content {
		v, ok := item.(*markup.Verse)
		if !ok {
			continue
		}
		if v.Number < 1 {
			problems = append(problems, fmt.Sprintf("%s: verse number %d is less than 1", path, v.Number))
		}
		if v.Number <= lastVerse {
			problems = append(problems, fmt.Sprintf("%s: verse %d does not strictly increase after %d", path, v.Number, lastVerse))
		}
		lastVerse = v.Number

		problems = append(problems, checkInline(path, v.Number, v.Content)...)
		for _, inline := range v.Content {
			if ref, ok := inline.(*markup.FootnoteRef); ok && noteIDs[ref.NoteID] != 1 {
				problems = append(problems, fmt.Sprintf("%s: verse %d references noteId %d which has %d matching footnotes (want 1)", path, v.Number, ref.NoteID, noteIDs[ref.NoteID]))
			}
		}
	}
	return problems
}

func checkInline(path string, verse int, items []markup.InlineItem) []string {
	var problems []string
	var lastKind string
	for i, item := range items {
		switch v := item.(type) {
		case markup.PlainText:
			if v == "" {
				problems = append(problems, fmt.Sprintf("%s: verse %d has an empty plain-text entry at index %d", path, verse, i))
			}
			if lastKind == "plain" {
				problems = append(problems, fmt.Sprintf("%s: verse %d has two adjacent plain-text entries at index %d", path, verse, i))
			}
			lastKind = "plain"
		case *markup.StyledText:
			if v.Text == "" {
				problems = append(problems, fmt.Sprintf("%s: verse %d has an empty styled-text entry at index %d", path, verse, i))
			}
			key := fmt.Sprintf("styled:%d:%v", v.Poem, v.WordsOfJesus)
			if lastKind == key {
				problems = append(problems, fmt.Sprintf("%s: verse %d has two adjacent identically-formatted entries at index %d", path, verse, i))
			}
			lastKind = key
		default:
			lastKind = ""
		}
	}
	return problems
}

// chapterEntry pairs a chapter page with the file path it was read from, for
// reporting purposes.
type chapterEntry struct {
	path string
	page corpus.ChapterPage
}

func checkLinkSymmetry(chapters []chapterEntry) []string {
	var problems []string
	for i, c := range chapters {
		if i == 0 {
			if c.page.PreviousChapterAPILink != nil {
				problems = append(problems, fmt.Sprintf("%s: first chapter has a non-null previousChapterApiLink", c.path))
			}
		} else {
			prev := chapters[i-1]
			if c.page.PreviousChapterAPILink == nil || *c.page.PreviousChapterAPILink != prev.page.ThisChapterLink {
				problems = append(problems, fmt.Sprintf("%s: previousChapterApiLink does not match %s", c.path, prev.path))
			}
		}
		if i == len(chapters)-1 {
			if c.page.NextChapterAPILink != nil {
				problems = append(problems, fmt.Sprintf("%s: last chapter has a non-null nextChapterApiLink", c.path))
			}
		} else {
			next := chapters[i+1]
			if c.page.NextChapterAPILink == nil || *c.page.NextChapterAPILink != next.page.ThisChapterLink {
				problems = append(problems, fmt.Sprintf("%s: nextChapterApiLink does not match %s", c.path, next.path))
			}
		}
	}
	return problems
}

func checkManifest(dir, manifestPath string) []string {
	data, err := os.ReadFile(manifestPath) //nolint:gosec
	if err != nil {
		return []string{fmt.Sprintf("reading manifest: %v", err)}
	}

	var problems []string
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "  ", 2)
		if len(fields) != 2 {
			problems = append(problems, fmt.Sprintf("manifest: malformed line %q", line))
			continue
		}
		wantHash, rel := fields[0], fields[1]

		content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel))) //nolint:gosec
		if err != nil {
			problems = append(problems, fmt.Sprintf("manifest: %s: %v", rel, err))
			continue
		}
		sum := sha256.Sum256(content)
		if got := hex.EncodeToString(sum[:]); got != wantHash {
			problems = append(problems, fmt.Sprintf("manifest: %s: hash mismatch", rel))
		}
	}
	return problems
}
