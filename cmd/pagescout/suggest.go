package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pagescout/pagescout/index"
)

// SuggestCmd indexes a local HTML file and prints the suggestions a
// query would produce, which makes scoring behavior easy to inspect.
type SuggestCmd struct {
	File  string `arg:"" required:"" help:"HTML file to index, or - for stdin"`
	Query string `arg:"" optional:"" help:"Query to suggest for; empty lists the document outline"`
	Limit int    `default:"10" help:"Maximum suggestions to print"`
}

func (c *SuggestCmd) Run(deps *Dependencies) error {
	var html []byte
	var err error
	if c.File == "-" {
		html, err = io.ReadAll(os.Stdin)
	} else {
		html, err = os.ReadFile(c.File)
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	indexer := index.NewService()
	frameHref := "file://" + c.File
	if err := indexer.SetDocument(frameHref, string(html)); err != nil {
		return err
	}

	suggestions, err := indexer.Suggest(c.Query, c.Limit)
	if err != nil {
		return err
	}
	if len(suggestions) == 0 {
		fmt.Fprintln(deps.Stdout, "no suggestions")
		return nil
	}

	for _, s := range suggestions {
		fmt.Fprintf(deps.Stdout, "%-12s %s\n", s.RawID, s.Title)
	}
	return nil
}
