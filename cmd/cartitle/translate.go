package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tiksanauto/cartitle/internal/bootstrap"
	"github.com/tiksanauto/cartitle/internal/title"
)

func newTranslateCommand() *cobra.Command {
	var (
		offline bool
		verbose bool
	)
	command := &cobra.Command{
		Use:   "translate [titles...]",
		Short: "Translate titles given as arguments, or one per line on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			titles := args
			if len(titles) == 0 {
				titles, err = readLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}

			app := bootstrap.New(bootstrap.DefaultShutdownTimeout)
			return app.Run(cmd.Context(), func(ctx context.Context) error {
				normalizer, err := bootstrap.NewNormalizer(ctx, app, cfg, nil, bootstrap.NormalizerOptions{Offline: offline})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if !verbose {
					for _, translated := range normalizer.TranslateBatch(ctx, titles) {
						if _, err := fmt.Fprintln(out, translated); err != nil {
							return fmt.Errorf("fmt.Fprintln > %w", err)
						}
					}
					return nil
				}

				for _, source := range titles {
					if err := printOutcome(out, source, normalizer.Translate(ctx, source)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	command.Flags().BoolVar(&offline, "offline", false, "use lexicons and corrections only, without the cache or the provider")
	command.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the source title and how each title was produced")
	return command
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner.Scan > %w", err)
	}
	return lines, nil
}

func printOutcome(w io.Writer, source string, outcome title.Outcome) error {
	pathColor := color.New(color.FgGreen)
	switch outcome.Path {
	case title.PathDegraded, title.PathRecovered:
		pathColor = color.New(color.FgYellow)
	case title.PathEmpty:
		pathColor = color.New(color.Faint)
	}

	label := string(outcome.Path)
	if outcome.Reason != "" {
		label += ": " + string(outcome.Reason)
	}
	if _, err := fmt.Fprintf(w, "%s\n  -> %s [%s]\n", source, outcome.Title, pathColor.Sprint(label)); err != nil {
		return fmt.Errorf("fmt.Fprintf > %w", err)
	}
	return nil
}
