package models

import "time"

// Side-table rows. These have no identity of their own: each row belongs
// to a parent document and is replaced wholesale by reconciliation when
// the parent is saved.

// PostRevisionRow is one revision of a post.
type PostRevisionRow struct {
	PostID string    `gorm:"type:char(36);index;not null"`
	AsOf   time.Time `gorm:"not null"`
	Text   string    `gorm:"type:longtext"`
}

func (PostRevisionRow) TableName() string { return "post_revisions" }

// PageRevisionRow is one revision of a page.
type PageRevisionRow struct {
	PageID string    `gorm:"type:char(36);index;not null"`
	AsOf   time.Time `gorm:"not null"`
	Text   string    `gorm:"type:longtext"`
}

func (PageRevisionRow) TableName() string { return "page_revisions" }

// PostPermalinkRow is a permalink a post previously had, kept so renamed
// posts can redirect.
type PostPermalinkRow struct {
	PostID    string `gorm:"type:char(36);index;not null"`
	Permalink string `gorm:"size:191;index;not null"`
}

func (PostPermalinkRow) TableName() string { return "post_permalinks" }

// PagePermalinkRow is a permalink a page previously had.
type PagePermalinkRow struct {
	PageID    string `gorm:"type:char(36);index;not null"`
	Permalink string `gorm:"size:191;index;not null"`
}

func (PagePermalinkRow) TableName() string { return "page_permalinks" }

// PostCategoryRow assigns a post to a category.
type PostCategoryRow struct {
	PostID     string `gorm:"type:char(36);index;not null"`
	CategoryID string `gorm:"type:char(36);index;not null"`
}

func (PostCategoryRow) TableName() string { return "post_categories" }

// PostTagRow assigns a tag to a post.
type PostTagRow struct {
	PostID string `gorm:"type:char(36);index;not null"`
	Tag    string `gorm:"size:191;index;not null"`
}

func (PostTagRow) TableName() string { return "post_tags" }

// PostMetaRow is one metadata name/value pair for a post.
type PostMetaRow struct {
	PostID string `gorm:"type:char(36);index;not null"`
	Name   string `gorm:"size:191;not null"`
	Value  string `gorm:"size:191;not null"`
}

func (PostMetaRow) TableName() string { return "post_metas" }

// PageMetaRow is one metadata name/value pair for a page.
type PageMetaRow struct {
	PageID string `gorm:"type:char(36);index;not null"`
	Name   string `gorm:"size:191;not null"`
	Value  string `gorm:"size:191;not null"`
}

func (PageMetaRow) TableName() string { return "page_metas" }
