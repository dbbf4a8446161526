package models

import "time"

// Page is a static page (About, Contact, ...). IsInPageList marks pages
// that appear in site navigation. Meta, PriorPermalinks and Revisions are
// side collections reconciled on save and excluded from the document
// payload.
type Page struct {
	ID           string     `json:"id"`
	WebLogID     string     `json:"webLogId"`
	AuthorID     string     `json:"authorId"`
	Title        string     `json:"title"`
	Permalink    string     `json:"permalink"`
	PublishedOn  time.Time  `json:"publishedOn"`
	UpdatedOn    time.Time  `json:"updatedOn"`
	IsInPageList bool       `json:"isInPageList"`
	Template     *string    `json:"template,omitempty"`
	Text         string     `json:"text"`

	Meta            []MetaItem `json:"-"`
	PriorPermalinks []string   `json:"-"`
	Revisions       []Revision `json:"-"`
}
