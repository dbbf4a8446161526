package store

import (
	"context"
	"errors"

	"github.com/inkwell-cms/core/internal/docstore"
	"github.com/inkwell-cms/core/internal/models"
	"gorm.io/gorm"
)

// UploadStore persists uploaded file blobs for web logs that store
// uploads in the database.
type UploadStore struct {
	db *gorm.DB
}

func NewUploadStore(db *gorm.DB) *UploadStore {
	return &UploadStore{db: db}
}

// FindByWebLog returns the web log's upload metadata, payloads omitted.
func (s *UploadStore) FindByWebLog(ctx context.Context, webLogID string) ([]*models.Upload, error) {
	var uploads []*models.Upload
	err := s.db.WithContext(ctx).
		Select("id", "web_log_id", "path", "updated_on").
		Where("web_log_id = ?", webLogID).
		Order("path ASC").Find(&uploads).Error
	return uploads, err
}

// FindByWebLogWithData returns the web log's uploads with payloads, used
// when exporting a web log.
func (s *UploadStore) FindByWebLogWithData(ctx context.Context, webLogID string) ([]*models.Upload, error) {
	var uploads []*models.Upload
	err := s.db.WithContext(ctx).
		Where("web_log_id = ?", webLogID).Order("path ASC").Find(&uploads).Error
	return uploads, err
}

// FindByPath returns one upload with its payload, or (nil, nil).
func (s *UploadStore) FindByPath(ctx context.Context, webLogID, path string) (*models.Upload, error) {
	var upload models.Upload
	err := s.db.WithContext(ctx).
		Where("web_log_id = ? AND path = ?", webLogID, path).Take(&upload).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

// Add stores the upload in two phases: the row is created with an empty
// payload, then the bytes are streamed into it in chunks so arbitrarily
// large files never travel in one statement.
func (s *UploadStore) Add(ctx context.Context, upload *models.Upload) error {
	if upload.ID == "" {
		upload.ID = models.NewID()
	}
	payload := upload.Data
	row := models.Upload{
		ID:        upload.ID,
		WebLogID:  upload.WebLogID,
		Path:      upload.Path,
		UpdatedOn: upload.UpdatedOn.UTC(),
		Data:      []byte{},
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	return docstore.AppendBlob(ctx, s.db, models.Upload{}.TableName(), "data",
		"id = ? AND web_log_id = ?", []any{upload.ID, upload.WebLogID}, payload)
}

// Delete removes the upload, reporting false when none matched.
func (s *UploadStore) Delete(ctx context.Context, webLogID, id string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("id = ? AND web_log_id = ?", id, webLogID).Delete(&models.Upload{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
