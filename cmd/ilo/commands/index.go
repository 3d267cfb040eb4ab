package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/heartmarshall/ilo-wawa/internal/app"
	"github.com/heartmarshall/ilo-wawa/internal/corpus"
)

func indexCommand() *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "load or build the corpus cache",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "rebuild", Usage: "ignore any cache and index the corpus again"},
		},
		Action: indexAction,
	}
}

func indexAction(ctx context.Context, cmd *cli.Command) error {
	a, err := loadApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var st corpus.Status
	if cmd.Bool("rebuild") {
		st, err = a.Service.RebuildIndex(ctx)
	} else {
		st, err = a.Service.OpenIndex(ctx)
	}
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	fmt.Fprintln(w, st.Message)
	fmt.Fprintf(w, "corpus:  %s\n", st.CorpusPath)
	fmt.Fprintf(w, "model:   %s\n", st.Model)
	fmt.Fprintf(w, "entries: %d\n", st.Entries)
	if st.SourceHash != "" {
		fmt.Fprintf(w, "hash:    %s\n", st.SourceHash)
	}
	if st.Err != nil {
		fmt.Fprintf(w, "warning: %v\n", st.Err)
	}
	return nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return app.Run(ctx, cfg)
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print build information",
		Action: func(_ context.Context, cmd *cli.Command) error {
			fmt.Fprintln(cmd.Root().Writer, app.BuildVersion())
			return nil
		},
	}
}
