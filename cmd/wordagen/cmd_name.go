package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/CTAG07/wordagen/pkg/markov"
)

const nameMaxRetries = 50

var nameFlags struct {
	count int
}

var nameCmd = &cobra.Command{
	Use:   "name",
	Short: "Generate invented first and last names",
	Long: `Generate capitalized first/last name pairs from models trained on the
built-in "names" and "surnames" lists, e.g. "Sharrol Kritzen".

Usage:
  wordagen name
  wordagen name --count=5 --length=5-9`,
	Args: cobra.NoArgs,
	RunE: runName,
}

func init() {
	nameCmd.Flags().IntVar(&nameFlags.count, "count", 1, "number of name pairs to generate")
}

func runName(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("words") {
		return fmt.Errorf("name generation always uses the built-in \"names\" and \"surnames\" lists; --words cannot be combined with it")
	}
	if rootFlags.syllable {
		return fmt.Errorf("%w: name generation is Markov-only", markov.ErrUnsupportedMode)
	}
	minLen, maxLen, err := lengthRange(6, 20)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	firstGen, err := a.generator(cmd.Context(), "names")
	if err != nil {
		return err
	}
	lastGen, err := a.generator(cmd.Context(), "surnames")
	if err != nil {
		return err
	}

	title := cases.Title(language.English)
	for i := 0; i < nameFlags.count; i++ {
		first, last, err := namePair(firstGen, lastGen, minLen, maxLen)
		if err != nil {
			return err
		}
		cmd.Println(title.String(first) + " " + title.String(last))
	}
	return nil
}

// namePair draws first/last candidates until both land inside the length
// bounds, falling back to the candidates closest to the middle of the
// range when the retry budget runs out. The constrained modes may return
// slightly out-of-bounds words, hence the outer loop.
func namePair(firstGen, lastGen *markov.Generator, minLen, maxLen int) (string, string, error) {
	center := (minLen + maxLen) / 2
	closer := func(best, cand string) bool {
		return best == "" || absInt(len(cand)-center) < absInt(len(best)-center)
	}

	var bestFirst, bestLast string
	for retry := 0; retry < nameMaxRetries; retry++ {
		first, err := generateOne(firstGen, minLen, maxLen)
		if err != nil {
			return "", "", err
		}
		last, err := generateOne(lastGen, minLen, maxLen)
		if err != nil {
			return "", "", err
		}
		if len(first) >= minLen && len(first) <= maxLen &&
			len(last) >= minLen && len(last) <= maxLen {
			return first, last, nil
		}
		if closer(bestFirst, first) {
			bestFirst = first
		}
		if closer(bestLast, last) {
			bestLast = last
		}
	}
	return bestFirst, bestLast, nil
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
