package docstore

import (
	"context"

	"gorm.io/gorm"
)

// blobChunkSize bounds the bytes bound into any single statement when
// streaming a blob payload.
const blobChunkSize = 256 * 1024

// AppendBlob streams payload into the named blob column of an existing
// row, one chunk per statement. The row must already hold an empty (not
// NULL) payload; this is phase two of the two-phase blob write, keeping
// arbitrarily large payloads out of any single bind.
func AppendBlob(ctx context.Context, db *gorm.DB, table, column, where string, whereArgs []any, payload []byte) error {
	concat := "CONCAT(" + column + ", ?)"
	if db.Dialector.Name() == "sqlite" {
		concat = column + " || ?"
	}
	for off := 0; off < len(payload); off += blobChunkSize {
		end := off + blobChunkSize
		if end > len(payload) {
			end = len(payload)
		}
		chunk := payload[off:end]
		err := db.WithContext(ctx).Table(table).
			Where(where, whereArgs...).
			Update(column, gorm.Expr(concat, chunk)).Error
		if err != nil {
			return err
		}
	}
	return nil
}
