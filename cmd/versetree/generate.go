package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/averyhale/versetree/internal/cliutil"
	"github.com/averyhale/versetree/pkg/classify"
	"github.com/averyhale/versetree/pkg/corpus"
	"github.com/averyhale/versetree/pkg/markup"
	"github.com/averyhale/versetree/pkg/usfm"
	"github.com/averyhale/versetree/pkg/usx"
)

// GenerateCmd runs the full C1-C7 pipeline over an input corpus directory
// and writes the resulting JSON API tree to disk.
//
// The input directory holds one subdirectory per translation:
//
//	<input>/<translationID>/metadata.json
//	<input>/<translationID>/books/<anything>.{usx,usfm,json}
//
// Book identity (the 3-letter canon code) comes from the parsed content
// itself (the USX <book code> attribute or the USFM \id marker), not the
// filename.
type GenerateCmd struct {
	Input         string `help:"Directory of per-translation source corpora" type:"existingdir" required:""`
	Out           string `help:"Output directory for the materialized API tree" required:""`
	UseCommonName bool   `help:"Use each book's common name instead of its 3-letter code in output paths"`
	Manifest      bool   `help:"Write a SHA256MANIFEST alongside the output tree" default:"true"`
	Quiet         bool   `help:"Suppress the progress spinner"`
}

func (cmd *GenerateCmd) Run() error {
	translationDirs, err := os.ReadDir(cmd.Input)
	if err != nil {
		return fmt.Errorf("reading input directory: %w", err)
	}

	var stop chan bool
	if !cmd.Quiet {
		stop = make(chan bool)
		go cliutil.Spinner("generating", stop)
	}
	defer func() {
		if stop != nil {
			stop <- true
		}
	}()

	sink := &markup.Sink{}
	var inputs []corpus.TranslationInput

	for _, entry := range translationDirs {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(cmd.Input, entry.Name())

		meta, err := readMetadata(filepath.Join(dir, "metadata.json"))
		if err != nil {
			return fmt.Errorf("translation %s: %w", entry.Name(), err)
		}

		books, err := parseBooksDir(filepath.Join(dir, "books"), sink)
		if err != nil {
			return fmt.Errorf("translation %s: %w", entry.Name(), err)
		}

		inputs = append(inputs, corpus.TranslationInput{Metadata: meta, Books: books})
	}

	dataset, err := corpus.BuildDataset(inputs, sink)
	if err != nil {
		return err
	}

	graph := corpus.GenerateAPI(dataset, corpus.Options{UseCommonName: cmd.UseCommonName})
	outputs := corpus.Materialize(graph)

	if err := corpus.WriteTree(cmd.Out, outputs); err != nil {
		return err
	}

	if cmd.Manifest {
		if err := corpus.GenerateManifest(cmd.Out); err != nil {
			return err
		}
	}

	if stop != nil {
		stop <- true
		stop = nil
	}

	fmt.Printf("wrote %d files across %d translation(s)\n", len(outputs), len(dataset.Translations))
	for _, w := range sink.Warnings {
		fmt.Printf("warning: %s: %s\n", w.Kind, w.Detail)
	}
	return nil
}

func readMetadata(path string) (corpus.TranslationMetadata, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return corpus.TranslationMetadata{}, fmt.Errorf("reading metadata: %w", err)
	}
	var meta corpus.TranslationMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return corpus.TranslationMetadata{}, fmt.Errorf("parsing metadata: %w", err)
	}
	return meta, nil
}

// parseBooksDir parses every book file in dir. Books are independent parse
// units, so each file's classify+parse step runs on its own goroutine behind
// a bounded semaphore (grounded on the parseBook worker-pool pattern in
// other_examples' essentialbooks parse_book.go: sem := make(chan bool,
// nProcs), wg.Add/Done per file). Each goroutine parses into its own Sink so
// the concurrent appends never race; the per-file sinks are merged into the
// caller's sink afterward in file order.
func parseBooksDir(dir string, sink *markup.Sink) ([]*markup.Book, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading books directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}

	books := make([]*markup.Book, len(names))
	errs := make([]error, len(names))
	sinks := make([]markup.Sink, len(names))

	nProcs := runtime.GOMAXPROCS(0)
	if nProcs > len(names) {
		nProcs = len(names)
	}
	if nProcs < 1 {
		nProcs = 1
	}
	sem := make(chan struct{}, nProcs)
	var wg sync.WaitGroup

	for i, name := range names {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, name string) {
			defer wg.Done()
			defer func() { <-sem }()

			content, err := os.ReadFile(filepath.Join(dir, name)) //nolint:gosec
			if err != nil {
				errs[i] = fmt.Errorf("reading %s: %w", name, err)
				return
			}
			book, err := parseBookFile(name, content, &sinks[i])
			if err != nil {
				errs[i] = fmt.Errorf("parsing %s: %w", name, err)
				return
			}
			books[i] = book
		}(i, name)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, err
		}
		sink.Warnings = append(sink.Warnings, sinks[i].Warnings...)
	}
	return books, nil
}

func parseBookFile(name string, content []byte, sink *markup.Sink) (*markup.Book, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	hint := ""
	if ext == "usx" || ext == "usfm" || ext == "json" {
		hint = ext
	}

	kind, err := classify.Classify(hint, content)
	if err != nil {
		return nil, err
	}

	switch kind {
	case classify.USX:
		return usx.Parse(content, sink)
	case classify.USFM:
		return usfm.Parse(content, sink)
	case classify.JSONParsed:
		var book markup.Book
		if err := json.Unmarshal(content, &book); err != nil {
			return nil, fmt.Errorf("decoding pre-parsed book: %w", err)
		}
		return &book, nil
	default:
		return nil, markup.NewUnrecognizedMarkup(fmt.Sprintf("classifier returned unhandled kind %q", kind))
	}
}
