package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"

	"github.com/heartmarshall/ilo-wawa/internal/service/lexicon"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "find vocabulary words by meaning using the sentence corpus",
		ArgsUsage: "<query...>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "top", Usage: "number of nearest sentences to count words over (0 = configured)"},
			&cli.IntFlag{Name: "min", Usage: "minimum word frequency (0 = configured)"},
			&cli.BoolFlag{Name: "json", Usage: "print JSON instead of a table"},
		},
		Action: searchAction,
	}
}

func searchAction(ctx context.Context, cmd *cli.Command) error {
	query := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("search: query is required")
	}

	a, err := loadApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	matches, err := a.Service.SemanticSearch(ctx, query, int(cmd.Int("top")), int(cmd.Int("min")))
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	if cmd.Bool("json") {
		return renderJSON(w, matches)
	}
	if len(matches) == 0 {
		st := a.Service.IndexStatus()
		fmt.Fprintf(w, "no results (%s)\n", st.Message)
		return nil
	}
	renderMatches(w, matches, true)
	return nil
}

func wordsCommand() *cli.Command {
	return &cli.Command{
		Name:      "words",
		Usage:     "list vocabulary entries matching a keyword (all when empty)",
		ArgsUsage: "[keyword...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print JSON instead of a table"},
		},
		Action: wordsAction,
	}
}

func wordsAction(ctx context.Context, cmd *cli.Command) error {
	a, err := loadApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	matches := a.Service.KeywordSearch(strings.Join(cmd.Args().Slice(), " "))

	w := cmd.Root().Writer
	if cmd.Bool("json") {
		return renderJSON(w, matches)
	}
	renderMatches(w, matches, false)
	return nil
}

func wordCommand() *cli.Command {
	return &cli.Command{
		Name:      "word",
		Usage:     "show the details of one vocabulary word",
		ArgsUsage: "<word>",
		Action:    wordAction,
	}
}

func wordAction(ctx context.Context, cmd *cli.Command) error {
	a, err := loadApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	m, err := a.Service.Word(cmd.Args().First())
	if err != nil {
		return fmt.Errorf("word %q: %w", cmd.Args().First(), err)
	}

	w := cmd.Root().Writer
	fmt.Fprintf(w, "%s  %s  %s\n", m.Glyph, m.Word, m.Codepoint)
	if m.Gloss != "" {
		fmt.Fprintf(w, "\n%s\n", m.Gloss)
	}
	if m.ExtendedText != "" {
		fmt.Fprintf(w, "\n%s\n", m.ExtendedText)
	}
	if m.URL != "" {
		fmt.Fprintf(w, "\n%s\n", m.URL)
	}
	return nil
}

func renderMatches(w io.Writer, matches []lexicon.WordMatch, withFrequency bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := table.Row{"Glyph", "Word", "Codepoint", "Gloss"}
	if withFrequency {
		header = append(header, "Frequency")
	}
	t.AppendHeader(header)

	for _, m := range matches {
		row := table.Row{m.Glyph, m.Word, m.Codepoint, m.Gloss}
		if withFrequency {
			row = append(row, m.Frequency)
		}
		t.AppendRow(row)
	}

	t.Render()
	fmt.Fprintf(w, "(%d words)\n", len(matches))
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
