package models

import "time"

// AccessLevel is a user's role on a web log, ordered from least to most
// privileged.
type AccessLevel string

const (
	AccessAuthor        AccessLevel = "Author"
	AccessEditor        AccessLevel = "Editor"
	AccessWebLogAdmin   AccessLevel = "WebLogAdmin"
	AccessAdministrator AccessLevel = "Administrator"
)

var accessRank = map[AccessLevel]int{
	AccessAuthor:        0,
	AccessEditor:        1,
	AccessWebLogAdmin:   2,
	AccessAdministrator: 3,
}

// HasAccess reports whether the level grants at least the required level.
func (a AccessLevel) HasAccess(required AccessLevel) bool {
	return accessRank[a] >= accessRank[required]
}

// User is an author or administrator of a web log. PasswordHash is a
// bcrypt hash, never the clear text.
type User struct {
	ID            string      `json:"id"`
	WebLogID      string      `json:"webLogId"`
	Email         string      `json:"email"`
	FirstName     string      `json:"firstName"`
	LastName      string      `json:"lastName"`
	PreferredName string      `json:"preferredName"`
	PasswordHash  string      `json:"passwordHash"`
	URL           *string     `json:"url,omitempty"`
	AccessLevel   AccessLevel `json:"accessLevel"`
	CreatedOn     time.Time   `json:"createdOn"`
	LastSeenOn    *time.Time  `json:"lastSeenOn,omitempty"`
}

// DisplayName is the name shown for the user in lists and bylines.
func (u *User) DisplayName() string {
	if u.PreferredName != "" {
		return u.PreferredName
	}
	return u.FirstName + " " + u.LastName
}
