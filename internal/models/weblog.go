package models

// UploadDestination selects where a web log stores uploaded files.
type UploadDestination string

const (
	UploadToDatabase UploadDestination = "database"
	UploadToDisk     UploadDestination = "disk"
)

// RSSOptions holds a web log's syndication settings.
type RSSOptions struct {
	IsFeedEnabled     bool    `json:"isFeedEnabled"`
	FeedName          string  `json:"feedName"`
	ItemsInFeed       *int    `json:"itemsInFeed,omitempty"`
	IsCategoryEnabled bool    `json:"isCategoryEnabled"`
	IsTagEnabled      bool    `json:"isTagEnabled"`
	Copyright         *string `json:"copyright,omitempty"`
}

// RedirectRule maps an old URL to its new location. Rules are applied in
// order; the first match wins.
type RedirectRule struct {
	From    string `json:"from"`
	To      string `json:"to"`
	IsRegex bool   `json:"isRegex"`
}

// WebLog is one tenant: a single blog with its own URL base, theme and
// settings. Every other entity is owned by exactly one web log.
type WebLog struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Slogan       *string           `json:"slogan,omitempty"`
	Subtitle     *string           `json:"subtitle,omitempty"`
	DefaultPage  string            `json:"defaultPage"`
	PostsPerPage int               `json:"postsPerPage"`
	ThemeID      string            `json:"themeId"`
	URLBase      string            `json:"urlBase"`
	TimeZone     string            `json:"timeZone"`
	AutoHTMX     bool              `json:"autoHtmx"`
	Uploads      UploadDestination `json:"uploads"`
	RSS          RSSOptions        `json:"rss"`
	Redirects    []RedirectRule    `json:"redirectRules,omitempty"`
}
