package tui

import (
	"chronoline/internal/item"

	"github.com/sahilm/fuzzy"
)

// itemSource adapts a list of items to fuzzy.Source, matching on names.
type itemSource []item.Item

func (s itemSource) String(i int) string { return s[i].Name }
func (s itemSource) Len() int            { return len(s) }

// maxMatches is how many search results the footer lists.
const maxMatches = 5

// searchItems ranks the dated items of snap by fuzzy name match. An empty query matches
// nothing.
func searchItems(snap item.Snapshot, query string) []item.Item {
	if query == "" {
		return nil
	}
	var src itemSource
	for _, k := range item.Kinds {
		for _, it := range snap.Of(k) {
			if !it.Undated {
				src = append(src, it)
			}
		}
	}
	matches := fuzzy.FindFrom(query, src)
	if len(matches) > maxMatches {
		matches = matches[:maxMatches]
	}
	out := make([]item.Item, len(matches))
	for i, m := range matches {
		out[i] = src[m.Index]
	}
	return out
}
