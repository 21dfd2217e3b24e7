package linkgraph

import (
	"cmp"
	"slices"

	"git.home.luguber.info/inful/pagesmith/internal/document"
)

// Build extracts the links of every document and returns clones of docs with
// Backlinks set: the links targeting "/"+slug, sorted by FromTitle descending.
// Input documents are not modified.
func Build(docs []*document.Document) []*document.Document {
	byTarget := make(map[string][]document.Link)
	for _, d := range docs {
		for _, l := range Extract(d) {
			key := Normalize(l.ToPath)
			byTarget[key] = append(byTarget[key], l)
		}
	}

	out := make([]*document.Document, len(docs))
	for i, d := range docs {
		c := d.Clone()
		backlinks := slices.Clone(byTarget["/"+d.Slug])
		slices.SortStableFunc(backlinks, func(a, b document.Link) int {
			return cmp.Compare(b.FromTitle, a.FromTitle)
		})
		c.Backlinks = backlinks
		out[i] = c
	}
	return out
}
