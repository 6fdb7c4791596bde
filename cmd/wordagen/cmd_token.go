package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/CTAG07/wordagen/pkg/markov"
	"github.com/CTAG07/wordagen/pkg/syllable"
)

const tokenWords = 3

var tokenFlags struct {
	count int
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Generate dash-joined word triplets",
	Long: `Generate tokens of three nonsense words joined by dashes, in the style
of memorable identifiers like "blusk-trane-dimber".

Usage:
  wordagen token
  wordagen token --count=5 --length=4-6`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().IntVar(&tokenFlags.count, "count", 1, "number of tokens to generate")
}

func runToken(cmd *cobra.Command, _ []string) error {
	minLen, maxLen, err := lengthRange(5, 8)
	if err != nil {
		return err
	}

	var nextBatch func() ([]string, error)
	if rootFlags.syllable {
		if rootFlags.prefix != "" || rootFlags.suffix != "" {
			return errSyllableConstraints()
		}
		sg := syllable.NewGenerator()
		nextBatch = func() ([]string, error) {
			return sg.GenerateBatch(tokenWords, minLen, maxLen)
		}
	} else {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		var g *markov.Generator
		if g, err = a.generator(cmd.Context(), rootFlags.words); err != nil {
			return err
		}
		nextBatch = func() ([]string, error) {
			return generateMany(g, tokenWords, minLen, maxLen)
		}
	}

	for i := 0; i < tokenFlags.count; i++ {
		words, err := nextBatch()
		if err != nil {
			return err
		}
		cmd.Println(strings.Join(words, "-"))
	}
	return nil
}
