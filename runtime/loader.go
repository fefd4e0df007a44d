// Package runtime hosts the shared relay state (registry, gateway) and
// infrastructure-level tasks like loading embedded dictionaries.
package runtime

import (
	"bufio"
	"bytes"
	"chat-relay/errors"
	"io/fs"
	"sort"
	"strings"
)

// Dictionary is the merged profanity word list with metadata for logging.
type Dictionary struct {
	Words     []string
	Languages []string
}

// DictionaryLoader reads blacklisted words from per-language .txt files
// (one word per line, filename is the language, e.g. "en.txt").
type DictionaryLoader struct {
	fs fs.ReadDirFS
}

func NewDictionaryLoader(f fs.ReadDirFS) *DictionaryLoader {
	return &DictionaryLoader{fs: f}
}

// Load parses every .txt file under dir into one deduplicated, sorted
// word list. Fails if the merged list ends up empty.
func (l *DictionaryLoader) Load(dir string) (Dictionary, error) {
	entries, err := l.fs.ReadDir(dir)
	if err != nil {
		return Dictionary{}, err
	}

	var languages []string
	unique := make(map[string]struct{})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		languages = append(languages, strings.TrimSuffix(entry.Name(), ".txt"))

		data, err := fs.ReadFile(l.fs, dir+"/"+entry.Name())
		if err != nil {
			return Dictionary{}, err
		}

		// Scanner copes with \n and \r\n line endings alike.
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			if word := strings.TrimSpace(scanner.Text()); word != "" {
				unique[word] = struct{}{}
			}
		}
		if err := scanner.Err(); err != nil {
			return Dictionary{}, err
		}
	}

	if len(unique) == 0 {
		return Dictionary{}, errors.ErrEmptyWords
	}

	words := make([]string, 0, len(unique))
	for w := range unique {
		words = append(words, w)
	}
	// Stable order keeps automaton construction reproducible across runs.
	sort.Strings(words)

	return Dictionary{Words: words, Languages: languages}, nil
}
