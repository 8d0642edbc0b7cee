package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tiksanauto/cartitle/internal/bootstrap"
	"github.com/tiksanauto/cartitle/internal/correction"
	"github.com/tiksanauto/cartitle/internal/lexicon"
	"github.com/tiksanauto/cartitle/internal/title"
)

type LexiconKind string

func (k *LexiconKind) Set(val string) error {
	for _, kind := range allLexiconKinds {
		if val == string(kind) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("invalid lexicon kind: %s", val)
}

func (k LexiconKind) String() string {
	return string(k)
}

func (k *LexiconKind) Type() string {
	return "kind"
}

const (
	LexiconKindBrands LexiconKind = "brands"
	LexiconKindTerms  LexiconKind = "terms"
)

var (
	_               pflag.Value = (*LexiconKind)(nil)
	allLexiconKinds             = []LexiconKind{LexiconKindBrands, LexiconKindTerms}
)

func newLexiconCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:   "lexicon",
		Short: "Inspect the brand and term lexicons",
	}

	kind := LexiconKindBrands
	listCommand := &cobra.Command{
		Use:   "list",
		Short: "List lexicon entries in matching order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			brands, terms, err := bootstrap.LoadLexicons(cfg.Lexicon)
			if err != nil {
				return err
			}

			lex := brands
			if kind == LexiconKindTerms {
				lex = terms
			}
			for _, entry := range lex.Entries() {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", entry.Source, entry.Target); err != nil {
					return fmt.Errorf("fmt.Fprintf > %w", err)
				}
			}
			return nil
		},
	}
	listCommand.Flags().Var(&kind, "kind", fmt.Sprintf("lexicon to list. Possible values are %v", allLexiconKinds))

	lookupCommand := &cobra.Command{
		Use:   "lookup <text>",
		Short: "Show the exact entry, the entries matching text and its offline translation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			brands, terms, err := bootstrap.LoadLexicons(cfg.Lexicon)
			if err != nil {
				return err
			}
			normalizer, err := title.New(title.Options{
				Brands:    brands,
				Terms:     terms,
				Corrector: correction.Default(),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			bold := color.New(color.Bold)
			text := args[0]
			for _, lex := range []*lexicon.Lexicon{brands, terms} {
				if target, ok := lex.Lookup(text); ok {
					if _, err := fmt.Fprintf(out, "%s %s\t%s\n", bold.Sprint("exact:"), lex.Name(), target); err != nil {
						return fmt.Errorf("fmt.Fprintf > %w", err)
					}
				}
				for _, entry := range lex.Matches(text) {
					if _, err := fmt.Fprintf(out, "%s\t%s\t%s\n", lex.Name(), entry.Source, entry.Target); err != nil {
						return fmt.Errorf("fmt.Fprintf > %w", err)
					}
				}
			}
			if _, err := fmt.Fprintf(out, "%s %s\n", bold.Sprint("offline:"), normalizer.Substitute(text)); err != nil {
				return fmt.Errorf("fmt.Fprintf > %w", err)
			}
			return nil
		},
	}

	rootCommand.AddCommand(listCommand, lookupCommand)
	return rootCommand
}
