package keyphrase

import (
	_ "embed"
	"strings"
)

//go:embed stopwords_en.txt
var stopwordsFile string

// stopwords is the generic English stopword set removed before candidate
// generation. Loaded once from the embedded word list.
var stopwords = func() map[string]struct{} {
	words := strings.Fields(stopwordsFile)
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[strings.ToLower(word)] = struct{}{}
	}
	return set
}()
