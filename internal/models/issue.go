package models

// Issue is the common issue shape both tracker clients normalize into.
type Issue struct {
	Key     string `json:"key"`
	Summary string `json:"summary"`
}

// SearchOption is a label/value pair rendered in autocomplete lists.
// Labels carry a match indicator: 🟢 for an exact key match against the
// search term, 🔵 otherwise.
type SearchOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
