package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/CTAG07/wordagen/pkg/markov"
)

var exportFlags struct {
	output  string
	reverse bool
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a trained model as JSON",
	Long: `Train (or load from the cache) the model for --words and write it to a
JSON file for inspection or transfer to another machine.

Usage:
  wordagen export -o en.json
  wordagen export -o de-rev.json --words=de --reverse`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var importFlags struct {
	file   string
	source string
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a JSON model into the cache",
	Long: `Read a model exported with 'wordagen export' and store it in the local
cache under the given source name.

Usage:
  wordagen import -f en.json --source=my-english`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFlags.output, "output", "o", "", "output file path (required)")
	exportCmd.Flags().BoolVar(&exportFlags.reverse, "reverse", false, "export the reverse-trained model")
	_ = exportCmd.MarkFlagRequired("output")

	importCmd.Flags().StringVarP(&importFlags.file, "file", "f", "", "model JSON path (required)")
	importCmd.Flags().StringVar(&importFlags.source, "source", "", "source name to store the model under (required)")
	_ = importCmd.MarkFlagRequired("file")
	_ = importCmd.MarkFlagRequired("source")
}

func runExport(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	m, err := a.model(cmd.Context(), rootFlags.words, exportFlags.reverse)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := m.Export(&buf); err != nil {
		return err
	}
	if err := atomic.WriteFile(exportFlags.output, &buf); err != nil {
		return fmt.Errorf("write %q: %w", exportFlags.output, err)
	}
	cmd.Printf("exported %s model (%d states, %d words) to %s\n",
		rootFlags.words, m.States(), m.WordCount(), exportFlags.output)
	return nil
}

func runImport(cmd *cobra.Command, _ []string) error {
	if rootFlags.noCache {
		return fmt.Errorf("import needs the model cache; remove --no-cache")
	}
	f, err := os.Open(importFlags.file)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	m, err := markov.ImportModel(f)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	key := markov.StoreKey{Source: importFlags.source, Order: m.Order(), Reverse: m.Reverse()}
	if err := a.store.Put(cmd.Context(), key, m); err != nil {
		return err
	}
	cmd.Printf("imported %s (order %d, %d states) as source %q\n",
		importFlags.file, m.Order(), m.States(), importFlags.source)
	return nil
}
