package models

import "time"

// PostStatus is the publication state of a post.
type PostStatus string

const (
	Draft     PostStatus = "Draft"
	Published PostStatus = "Published"
)

// Revision is a timestamped snapshot of an item's source text, kept for
// history display and rollback. Revisions live in a side table, not in the
// serialized document.
type Revision struct {
	AsOf time.Time `json:"asOf"`
	Text string    `json:"text"`
}

// MetaItem is a name/value metadata pair attached to a post or page.
type MetaItem struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Post is a blog post. Text holds the rendered HTML; the markdown or HTML
// source lives in the newest revision. Meta, PriorPermalinks and Revisions
// are side collections attached on full reads and excluded from the
// document payload.
type Post struct {
	ID          string     `json:"id"`
	WebLogID    string     `json:"webLogId"`
	AuthorID    string     `json:"authorId"`
	Status      PostStatus `json:"status"`
	Title       string     `json:"title"`
	Permalink   string     `json:"permalink"`
	PublishedOn *time.Time `json:"publishedOn,omitempty"`
	UpdatedOn   time.Time  `json:"updatedOn"`
	Template    *string    `json:"template,omitempty"`
	Text        string     `json:"text"`
	CategoryIDs []string   `json:"categoryIds,omitempty"`
	Tags        []string   `json:"tags,omitempty"`

	Meta            []MetaItem `json:"-"`
	PriorPermalinks []string   `json:"-"`
	Revisions       []Revision `json:"-"`
}

// IsPublished reports whether the post is visible to readers.
func (p *Post) IsPublished() bool { return p.Status == Published }
