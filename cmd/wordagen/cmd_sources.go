package main

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CTAG07/wordagen/pkg/wordlist"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the built-in word sources",
	Args:  cobra.NoArgs,
	Run:   runSources,
}

func runSources(cmd *cobra.Command, _ []string) {
	var dictionaries, lists []string
	for name, target := range wordlist.Sources {
		if strings.HasPrefix(target, "hunspell:") {
			dictionaries = append(dictionaries, name)
		} else {
			lists = append(lists, name)
		}
	}
	sort.Strings(dictionaries)
	sort.Strings(lists)

	cmd.Println("Language dictionaries (Hunspell, morphologically expanded):")
	for _, name := range dictionaries {
		cmd.Println("  " + name)
	}
	cmd.Println()
	cmd.Println("Plain word lists:")
	for _, name := range lists {
		cmd.Println("  " + name)
	}
	cmd.Println()
	cmd.Println("Custom lists can be given as http:// or https:// URLs:")
	cmd.Println("  wordagen batch --words=https://example.com/wordlist.txt")
}
