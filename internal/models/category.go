package models

// Category groups posts. ParentID forms a forest via self-reference; the
// application does not prevent cycles, so consumers walking parent chains
// must guard against them.
type Category struct {
	ID          string  `json:"id"`
	WebLogID    string  `json:"webLogId"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
	ParentID    *string `json:"parentId,omitempty"`
}

// DisplayCategory is a materialized view of a category: its full ancestor
// name chain and the number of published posts assigned to it or to any of
// its descendants.
type DisplayCategory struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	ParentNames []string `json:"parentNames"`
	PostCount   int      `json:"postCount"`
}

// TagMap maps a tag to the value it uses in URLs, for tags whose text is
// not URL-safe.
type TagMap struct {
	ID       string `json:"id"`
	WebLogID string `json:"webLogId"`
	Tag      string `json:"tag"`
	URLValue string `json:"urlValue"`
}
