package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"
)

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "convert text to glyphs (reads stdin when no text is given)",
		ArgsUsage: "[text...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-ascii-controls", Usage: "emit structural ASCII characters as-is"},
			&cli.BoolFlag{Name: "drop-unknown", Usage: "drop words missing from the vocabulary"},
			&cli.BoolFlag{Name: "keep-whitespace", Usage: "keep spaces and tabs"},
			&cli.BoolFlag{Name: "drop-newlines", Usage: "remove line breaks"},
			&cli.BoolFlag{Name: "unknown", Usage: "list unknown words with their byte offsets"},
			&cli.BoolFlag{Name: "codepoints", Usage: "print the output codepoints"},
		},
		Action: convertAction,
	}
}

func convertAction(ctx context.Context, cmd *cli.Command) error {
	text := strings.Join(cmd.Args().Slice(), " ")
	if cmd.Args().Len() == 0 {
		data, err := io.ReadAll(cmd.Root().Reader)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	a, err := loadApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := a.Service.Defaults()
	if cmd.Bool("no-ascii-controls") {
		opts.AllowASCIIControls = false
	}
	if cmd.Bool("drop-unknown") {
		opts.PassUnknown = false
	}
	if cmd.Bool("keep-whitespace") {
		opts.CollapseWhitespace = false
	}
	if cmd.Bool("drop-newlines") {
		opts.PreserveNewlines = false
	}

	res, err := a.Service.Convert(text, opts)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	fmt.Fprintln(w, res.Output)
	if cmd.Bool("codepoints") {
		fmt.Fprintln(w, strings.Join(res.Codepoints, " "))
	}
	if cmd.Bool("unknown") {
		for _, u := range res.Unknown {
			fmt.Fprintf(w, "unknown %q at %d-%d\n", u.Text, u.Start, u.End)
		}
	}
	return nil
}
