package tui

import (
	"github.com/podscout/podscout/internal/domain"
	"github.com/sahilm/fuzzy"
)

// episodeSource adapts an episode slice for fuzzy matching.
type episodeSource []*domain.Episode

func (s episodeSource) String(i int) string {
	return s[i].Title + " " + s[i].Author
}

func (s episodeSource) Len() int {
	return len(s)
}

// filterRows fuzzy-matches the fetched items against the query and returns
// them as a flat row list, best matches first.
func filterRows(items []*domain.Episode, query string) []row {
	matches := fuzzy.FindFrom(query, episodeSource(items))
	rows := make([]row, 0, len(matches))
	for _, match := range matches {
		rows = append(rows, row{Episode: items[match.Index]})
	}
	return rows
}
