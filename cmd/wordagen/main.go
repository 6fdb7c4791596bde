// wordagen generates pronounceable nonsense words from character-level
// Markov chains trained on real word lists, or from syllable components
// when no training data is wanted.
//
// Usage:
//
//	wordagen batch [--count=50] [--length=5-12] [--words=en]
//	wordagen word [--length=8-12] [--prefix=..] [--suffix=..]
//	wordagen token [--count=1] [--length=5-8]
//	wordagen name [--count=1] [--length=6-20]
//	wordagen sources
//	wordagen export -o model.json [--words=en]
//	wordagen import -f model.json --source=name
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	words    string
	order    int
	cutoff   float64
	length   string
	retries  int
	prefix   string
	suffix   string
	syllable bool
	verbose  bool
	noCache  bool
}

var rootCmd = &cobra.Command{
	Use:   "wordagen",
	Short: "Generate pronounceable nonsense words",
	Long: "Wordagen generates nonsense words that look and sound like real ones,\n" +
		"using character-level Markov chains trained on downloadable word lists.\n" +
		"Trained models are cached in a local SQLite database.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.words, "words", "en", "word list name or URL (see 'wordagen sources')")
	pf.IntVar(&rootFlags.order, "order", 2, "Markov chain order")
	pf.Float64Var(&rootFlags.cutoff, "cutoff", 0.1, "minimum relative probability cutoff")
	pf.StringVar(&rootFlags.length, "length", "", "word length range, e.g. '5-8' or '6'")
	pf.IntVar(&rootFlags.retries, "retries", 0, "maximum generation retries (0 for the default)")
	pf.StringVar(&rootFlags.prefix, "prefix", "", "start generated words with this prefix")
	pf.StringVar(&rootFlags.suffix, "suffix", "", "end generated words with this suffix")
	pf.BoolVar(&rootFlags.syllable, "syllable", false, "use the syllable generator instead of Markov chains")
	pf.BoolVarP(&rootFlags.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&rootFlags.noCache, "no-cache", false, "skip the model cache and train from scratch")

	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(wordCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(nameCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
