package models

import "github.com/google/uuid"

// NewID returns a fresh document id. Ids are unique across web logs, so a
// lookup by id alone could resolve another tenant's row; stores must still
// scope every query by web log id.
func NewID() string { return uuid.New().String() }
