package models

import "time"

// ThemeTemplate is one named template inside a theme.
type ThemeTemplate struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Theme is a set of templates shared by any web log that selects it.
// Themes are keyed by their own id rather than a web log id.
type Theme struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Version   string          `json:"version"`
	Templates []ThemeTemplate `json:"templates"`
}

// Template returns the named template, or nil when the theme has none by
// that name.
func (t *Theme) Template(name string) *ThemeTemplate {
	for i := range t.Templates {
		if t.Templates[i].Name == name {
			return &t.Templates[i]
		}
	}
	return nil
}

// ThemeAsset is a static file (CSS, image, ...) belonging to a theme,
// stored as a blob row keyed by (theme id, path).
type ThemeAsset struct {
	ThemeID   string    `json:"themeId"   gorm:"primaryKey;size:191"`
	Path      string    `json:"path"      gorm:"primaryKey;size:191"`
	UpdatedOn time.Time `json:"updatedOn"`
	Data      []byte    `json:"-"         gorm:"type:longblob"`
}

func (ThemeAsset) TableName() string { return "theme_assets" }
