package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrDuplicateID is returned by Insert when a row with the same id already
// exists in the table.
var ErrDuplicateID = errors.New("document id already exists")

// Row is the storage shape shared by every document table: an id, the
// owning web log, and the serialized payload.
type Row struct {
	ID       string         `gorm:"type:char(36);primaryKey"`
	WebLogID string         `gorm:"type:char(36);index;not null"`
	Data     datatypes.JSON `gorm:"not null"`
}

// Scope narrows or orders a document query.
type Scope func(*gorm.DB) *gorm.DB

// DataEquals matches documents whose field at the given JSON path equals
// value.
func DataEquals(value any, path ...string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(datatypes.JSONQuery("data").Equals(value, path...))
	}
}

// OrderByData orders by a top-level document field. The path is a
// code-supplied constant, never user input.
func OrderByData(path string, desc bool) Scope {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(fmt.Sprintf("JSON_EXTRACT(data, '$.%s') %s", path, dir))
	}
}

// WithoutDataFields projects the document with the named top-level fields
// removed, so list reads skip large text columns.
func WithoutDataFields(fields ...string) Scope {
	paths := make([]string, len(fields))
	for i, f := range fields {
		paths[i] = fmt.Sprintf("'$.%s'", f)
	}
	sel := fmt.Sprintf("id, web_log_id, JSON_REMOVE(data, %s) AS data", strings.Join(paths, ", "))
	return func(db *gorm.DB) *gorm.DB {
		return db.Select(sel)
	}
}

// Window applies limit/offset paging. Page numbers are 1-based.
func Window(page, perPage int) Scope {
	if page < 1 {
		page = 1
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * perPage).Limit(perPage)
	}
}

// Repository is a generic per-tenant document repository over one table.
// Every operation filters by web log id as well as document id; an id
// alone never resolves a cross-tenant row.
type Repository[T any] struct {
	db    *gorm.DB
	table string
	codec Serializer
}

// NewRepository creates a repository over the given table. A nil codec
// selects JSONSerializer.
func NewRepository[T any](db *gorm.DB, table string, codec Serializer) *Repository[T] {
	if codec == nil {
		codec = JSONSerializer{}
	}
	return &Repository[T]{db: db, table: table, codec: codec}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *Repository[T]) WithTx(tx *gorm.DB) *Repository[T] {
	return &Repository[T]{db: tx, table: r.table, codec: r.codec}
}

// Table returns the backing table name.
func (r *Repository[T]) Table() string { return r.table }

func (r *Repository[T]) scoped(ctx context.Context, webLogID string) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.table).Where("web_log_id = ?", webLogID)
}

func (r *Repository[T]) decode(row *Row) (*T, error) {
	var doc T
	if err := r.codec.Deserialize(row.Data, &doc); err != nil {
		return nil, fmt.Errorf("deserialize %s %s: %w", r.table, row.ID, err)
	}
	return &doc, nil
}

// FindByID returns the document, or (nil, nil) when no row exists for this
// id under this web log.
func (r *Repository[T]) FindByID(ctx context.Context, webLogID, id string) (*T, error) {
	var row Row
	err := r.scoped(ctx, webLogID).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.decode(&row)
}

// Exists reports whether the id exists under the web log.
func (r *Repository[T]) Exists(ctx context.Context, webLogID, id string) (bool, error) {
	var n int64
	err := r.scoped(ctx, webLogID).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// First returns the first document matching the scopes, or (nil, nil).
func (r *Repository[T]) First(ctx context.Context, webLogID string, scopes ...Scope) (*T, error) {
	tx := r.scoped(ctx, webLogID)
	for _, s := range scopes {
		tx = s(tx)
	}
	var row Row
	err := tx.Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.decode(&row)
}

// Find returns all documents matching the scopes, unordered unless a
// scope orders them.
func (r *Repository[T]) Find(ctx context.Context, webLogID string, scopes ...Scope) ([]*T, error) {
	tx := r.scoped(ctx, webLogID)
	for _, s := range scopes {
		tx = s(tx)
	}
	var rows []Row
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	docs := make([]*T, 0, len(rows))
	for i := range rows {
		doc, err := r.decode(&rows[i])
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// FindIDs returns the ids of all rows matching the scopes, without
// deserializing payloads.
func (r *Repository[T]) FindIDs(ctx context.Context, webLogID string, scopes ...Scope) ([]string, error) {
	tx := r.scoped(ctx, webLogID).Select("id")
	for _, s := range scopes {
		tx = s(tx)
	}
	var ids []string
	return ids, tx.Scan(&ids).Error
}

// All returns every document in the table across web logs, for callers
// like the tenant registry that fill from the whole table.
func (r *Repository[T]) All(ctx context.Context) ([]*T, error) {
	var rows []Row
	if err := r.db.WithContext(ctx).Table(r.table).Find(&rows).Error; err != nil {
		return nil, err
	}
	docs := make([]*T, 0, len(rows))
	for i := range rows {
		doc, err := r.decode(&rows[i])
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Count counts rows matching the scopes.
func (r *Repository[T]) Count(ctx context.Context, webLogID string, scopes ...Scope) (int64, error) {
	tx := r.scoped(ctx, webLogID)
	for _, s := range scopes {
		tx = s(tx)
	}
	var n int64
	return n, tx.Count(&n).Error
}

// Insert stores a new document, failing with ErrDuplicateID when the id is
// already taken. Ids are unique across web logs; the primary key enforces
// that, so a concurrent insert of the same id loses cleanly instead of
// racing a lookup.
func (r *Repository[T]) Insert(ctx context.Context, webLogID, id string, doc *T) error {
	data, err := r.codec.Serialize(doc)
	if err != nil {
		return fmt.Errorf("serialize %s %s: %w", r.table, id, err)
	}
	err = r.db.WithContext(ctx).Table(r.table).Create(&Row{ID: id, WebLogID: webLogID, Data: data}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s %s: %w", r.table, id, ErrDuplicateID)
	}
	return err
}

// Replace swaps the payload of an existing document. It reports whether
// the document exists; replacing a missing id is a no-op. Existence comes
// from a lookup, not the update's affected-row count: MySQL counts rows
// changed rather than rows matched, so an identical payload would read as
// zero rows.
func (r *Repository[T]) Replace(ctx context.Context, webLogID, id string, doc *T) (bool, error) {
	exists, err := r.Exists(ctx, webLogID, id)
	if err != nil || !exists {
		return false, err
	}
	data, err := r.codec.Serialize(doc)
	if err != nil {
		return false, fmt.Errorf("serialize %s %s: %w", r.table, id, err)
	}
	err = r.scoped(ctx, webLogID).Where("id = ?", id).Update("data", datatypes.JSON(data)).Error
	return err == nil, err
}

// Delete removes the document. Deleting a missing id is not an error.
func (r *Repository[T]) Delete(ctx context.Context, webLogID, id string) error {
	return r.scoped(ctx, webLogID).Where("id = ?", id).Delete(&Row{}).Error
}

// DeleteAll removes every document the web log owns.
func (r *Repository[T]) DeleteAll(ctx context.Context, webLogID string) error {
	return r.scoped(ctx, webLogID).Delete(&Row{}).Error
}
