package wordlist

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// hunspellSources maps language codes to the LibreOffice Hunspell .dic
// files. The matching .aff file is derived from the .dic URL.
var hunspellSources = map[string]string{
	"da":    "https://raw.githubusercontent.com/LibreOffice/dictionaries/refs/heads/master/da_DK/da_DK.dic",
	"de":    "https://raw.githubusercontent.com/LibreOffice/dictionaries/refs/heads/master/de/de_DE_frami.dic",
	"en":    "https://raw.githubusercontent.com/LibreOffice/dictionaries/refs/heads/master/en/en_US.dic",
	"en-gb": "https://raw.githubusercontent.com/LibreOffice/dictionaries/refs/heads/master/en/en_GB.dic",
	"es":    "https://raw.githubusercontent.com/LibreOffice/dictionaries/refs/heads/master/es/es_ES.dic",
	"fr":    "https://raw.githubusercontent.com/LibreOffice/dictionaries/refs/heads/master/fr_FR/fr.dic",
	"it":    "https://raw.githubusercontent.com/LibreOffice/dictionaries/refs/heads/master/it_IT/it_IT.dic",
	"nl":    "https://raw.githubusercontent.com/LibreOffice/dictionaries/refs/heads/master/nl_NL/nl_NL.dic",
	"pt":    "https://raw.githubusercontent.com/LibreOffice/dictionaries/refs/heads/master/pt_PT/pt_PT.dic",
	"sv":    "https://raw.githubusercontent.com/LibreOffice/dictionaries/refs/heads/master/sv_SE/sv_SE.dic",
}

// affixRule is one strip/add transformation from a Hunspell .aff file.
type affixRule struct {
	prefix    bool // PFX rule; SFX otherwise
	strip     string
	add       string
	condition string
}

// loadHunspell downloads (or reuses a cached copy of) the .dic and .aff
// files for lang and returns the base words plus their affix expansions.
// A missing or unparsable .aff file is not fatal; expansion is skipped.
func (l *Loader) loadHunspell(ctx context.Context, lang string) (*Corpus, error) {
	dicURL, ok := hunspellSources[lang]
	if !ok && isURL(lang) {
		dicURL = lang
		lang = shortHash(lang)
	} else if !ok {
		return nil, fmt.Errorf("%w: hunspell language %q", ErrUnknownSource, lang)
	}

	dicFile := filepath.Join(l.cacheDir, "hunspell_"+lang+".dic")
	if err := l.fetch(ctx, dicURL, dicFile); err != nil {
		return nil, err
	}

	var rules map[string][]affixRule
	affFile := filepath.Join(l.cacheDir, "hunspell_"+lang+".aff")
	affURL := strings.TrimSuffix(dicURL, ".dic") + ".aff"
	if err := l.fetch(ctx, affURL, affFile); err != nil {
		l.logger.Warn("affix file unavailable, skipping morphology",
			slog.String("lang", lang),
			slog.Any("error", err),
		)
	} else if data, err := os.ReadFile(affFile); err == nil {
		rules = parseAffixes(string(data))
	}

	return parseDic(dicFile, rules)
}

// parseAffixes extracts the SFX/PFX rule sets from .aff file content,
// keyed by flag name. Lines it does not understand are skipped; Hunspell
// files carry plenty of directives that do not matter here.
func parseAffixes(content string) map[string][]affixRule {
	rules := make(map[string][]affixRule)
	for _, line := range strings.Split(content, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < 4 {
			continue
		}
		if fields[0] != "SFX" && fields[0] != "PFX" {
			continue
		}
		// Header lines are "SFX flag Y count"; rule lines carry a strip
		// and condition column instead of the cross-product marker.
		if fields[2] == "Y" || fields[2] == "N" {
			continue
		}
		flag := fields[1]
		strip := fields[2]
		if strip == "0" {
			strip = ""
		}
		add := fields[3]
		if add = strings.SplitN(add, "/", 2)[0]; add == "0" {
			add = ""
		}
		// An omitted condition column means the rule always applies.
		condition := "."
		if len(fields) >= 5 {
			condition = fields[4]
		}
		rules[flag] = append(rules[flag], affixRule{
			prefix:    fields[0] == "PFX",
			strip:     strip,
			add:       add,
			condition: condition,
		})
	}
	return rules
}

// expandWord applies every rule reachable from the word's flag string and
// returns the valid variants, original excluded.
func expandWord(word, flags string, rules map[string][]affixRule) []string {
	var variants []string
	for _, flag := range flags {
		for _, rule := range rules[string(flag)] {
			if !rule.matches(word) {
				continue
			}
			var variant string
			if rule.prefix {
				variant = word
				if rule.strip != "" && strings.HasPrefix(word, rule.strip) {
					variant = word[len(rule.strip):]
				}
				variant = rule.add + variant
			} else {
				variant = word
				if rule.strip != "" && strings.HasSuffix(word, rule.strip) {
					variant = word[:len(word)-len(rule.strip)]
				}
				variant += rule.add
			}
			variant = strings.ToLower(variant)
			if IsValidWord(variant) {
				variants = append(variants, variant)
			}
		}
	}
	return variants
}

// condElem is one position of a parsed condition: a wildcard, a literal
// character, or a (possibly negated) character class.
type condElem struct {
	chars  string
	negate bool
	any    bool
}

func parseCondition(cond string) []condElem {
	var elems []condElem
	for i := 0; i < len(cond); {
		switch cond[i] {
		case '.':
			elems = append(elems, condElem{any: true})
			i++
		case '[':
			j := strings.IndexByte(cond[i:], ']')
			if j < 0 {
				elems = append(elems, condElem{chars: cond[i : i+1]})
				i++
				continue
			}
			class := cond[i+1 : i+j]
			negate := strings.HasPrefix(class, "^")
			if negate {
				class = class[1:]
			}
			elems = append(elems, condElem{chars: class, negate: negate})
			i += j + 1
		default:
			elems = append(elems, condElem{chars: cond[i : i+1]})
			i++
		}
	}
	return elems
}

// matches checks the rule's condition against the relevant end of the word.
// Conditions are Hunspell patterns made of literals, "." wildcards, and
// "[xyz]"/"[^xyz]" classes; a suffix rule tests the word's tail, a prefix
// rule its head.
func (r affixRule) matches(word string) bool {
	elems := parseCondition(r.condition)
	if len(elems) > len(word) {
		return false
	}
	start := len(word) - len(elems)
	if r.prefix {
		start = 0
	}
	for i, e := range elems {
		if e.any {
			continue
		}
		in := strings.IndexByte(e.chars, word[start+i]) >= 0
		if in == e.negate {
			return false
		}
	}
	return true
}

// parseDic reads a .dic file: the first line is the entry count, each
// following line is "word/FLAGS". Base words are kept when valid and
// expanded through the affix rules when any were parsed.
func parseDic(path string, rules map[string][]affixRule) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wordlist: open dictionary %q: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	corpus := NewCorpus()
	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if first {
			first = false
			continue // entry count header
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, flags, _ := strings.Cut(line, "/")
		word = strings.ToLower(strings.TrimSpace(word))
		if !IsValidWord(word) {
			continue
		}
		corpus.Add(word)
		if flags != "" && len(rules) > 0 {
			for _, variant := range expandWord(word, flags, rules) {
				corpus.Add(variant)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("wordlist: parse dictionary %q: %w", path, err)
	}
	if corpus.Len() == 0 {
		return nil, fmt.Errorf("wordlist: no valid words in dictionary %q", path)
	}
	return corpus, nil
}
