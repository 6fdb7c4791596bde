package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CTAG07/wordagen/pkg/syllable"
)

var batchFlags struct {
	count int
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate a batch of nonsense words",
	Long: `Generate a batch of nonsense words and print them in a grid.

Usage:
  wordagen batch                       # 50 words from the English model
  wordagen batch --count=20 --words=de
  wordagen batch --prefix=qu --length=5-9
  wordagen batch --syllable            # no training data needed`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVar(&batchFlags.count, "count", 50, "number of words to generate")
}

func runBatch(cmd *cobra.Command, _ []string) error {
	minLen, maxLen, err := lengthRange(5, 12)
	if err != nil {
		return err
	}

	var words []string
	if rootFlags.syllable {
		if rootFlags.prefix != "" || rootFlags.suffix != "" {
			return errSyllableConstraints()
		}
		words, err = syllable.NewGenerator().GenerateBatch(batchFlags.count, minLen, maxLen)
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
		words, err = generateMany(g, batchFlags.count, minLen, maxLen)
	}
	if err != nil {
		return err
	}

	printGrid(cmd, words)
	return nil
}

// printGrid prints words five per row, padded to a shared column width.
func printGrid(cmd *cobra.Command, words []string) {
	width := 12
	for _, w := range words {
		if len(w) > width {
			width = len(w)
		}
	}
	for i := 0; i < len(words); i += 5 {
		row := words[i:min(i+5, len(words))]
		cells := make([]string, len(row))
		for j, w := range row {
			cells[j] = fmt.Sprintf("%-*s", width, w)
		}
		cmd.Println(strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}
