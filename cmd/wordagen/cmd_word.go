package main

import (
	"github.com/spf13/cobra"

	"github.com/CTAG07/wordagen/pkg/syllable"
)

var wordCmd = &cobra.Command{
	Use:   "word",
	Short: "Generate a single nonsense word",
	Long: `Generate one nonsense word.

Usage:
  wordagen word
  wordagen word --prefix=qu
  wordagen word --suffix=ing --words=en
  wordagen word --prefix=re --suffix=ing --length=7-10`,
	Args: cobra.NoArgs,
	RunE: runWord,
}

func runWord(cmd *cobra.Command, _ []string) error {
	minLen, maxLen, err := lengthRange(8, 12)
	if err != nil {
		return err
	}

	var word string
	if rootFlags.syllable {
		if rootFlags.prefix != "" || rootFlags.suffix != "" {
			return errSyllableConstraints()
		}
		word, err = syllable.NewGenerator().Generate(minLen, maxLen)
	} else {
		a, appErr := newApp()
		if appErr != nil {
			return appErr
		}
		defer a.close()
		g, genErr := a.generator(cmd.Context(), rootFlags.words)
		if genErr != nil {
			return genErr
		}
		word, err = generateOne(g, minLen, maxLen)
	}
	if err != nil {
		return err
	}

	cmd.Println(word)
	return nil
}
