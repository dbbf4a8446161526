package store

import (
	"context"

	"github.com/inkwell-cms/core/internal/docstore"
	"github.com/inkwell-cms/core/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WebLogStore persists web logs (tenants). A web log document's owning
// tenant is itself, so its rows carry web_log_id = id.
type WebLogStore struct {
	db   *gorm.DB
	log  *zap.Logger
	docs *docstore.Repository[models.WebLog]
}

func NewWebLogStore(db *gorm.DB, codec docstore.Serializer, log *zap.Logger) *WebLogStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebLogStore{db: db, log: log, docs: docstore.NewRepository[models.WebLog](db, webLogTable, codec)}
}

// All returns every web log.
func (s *WebLogStore) All(ctx context.Context) ([]*models.WebLog, error) {
	return s.docs.All(ctx)
}

// FindByID returns the web log, or (nil, nil).
func (s *WebLogStore) FindByID(ctx context.Context, id string) (*models.WebLog, error) {
	return s.docs.FindByID(ctx, id, id)
}

// Add provisions a new web log, generating an id when none is set.
func (s *WebLogStore) Add(ctx context.Context, webLog *models.WebLog) error {
	if webLog.ID == "" {
		webLog.ID = models.NewID()
	}
	return s.docs.Insert(ctx, webLog.ID, webLog.ID, webLog)
}

// UpdateSettings replaces the web log document after a settings save,
// reporting false when the web log does not exist.
func (s *WebLogStore) UpdateSettings(ctx context.Context, webLog *models.WebLog) (bool, error) {
	return s.docs.Replace(ctx, webLog.ID, webLog.ID, webLog)
}

// UpdateRSSOptions replaces only the web log's RSS settings.
func (s *WebLogStore) UpdateRSSOptions(ctx context.Context, id string, rss models.RSSOptions) (bool, error) {
	webLog, err := s.FindByID(ctx, id)
	if err != nil || webLog == nil {
		return false, err
	}
	webLog.RSS = rss
	return s.docs.Replace(ctx, id, id, webLog)
}

// UpdateRedirectRules replaces only the web log's redirect rules.
func (s *WebLogStore) UpdateRedirectRules(ctx context.Context, id string, rules []models.RedirectRule) (bool, error) {
	webLog, err := s.FindByID(ctx, id)
	if err != nil || webLog == nil {
		return false, err
	}
	webLog.Redirects = rules
	return s.docs.Replace(ctx, id, id, webLog)
}

// Delete removes the web log and everything it owns: posts, pages,
// categories, users, tag maps, uploads, and every side-table row, in one
// transaction. Reports false when no web log matched.
func (s *WebLogStore) Delete(ctx context.Context, id string) (bool, error) {
	exists, err := s.docs.Exists(ctx, id, id)
	if err != nil || !exists {
		return false, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		postIDs := func() *gorm.DB { return tx.Table(postTable).Select("id").Where("web_log_id = ?", id) }
		if err := tx.Where("post_id IN (?)", postIDs()).Delete(&models.PostRevisionRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN (?)", postIDs()).Delete(&models.PostPermalinkRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN (?)", postIDs()).Delete(&models.PostCategoryRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN (?)", postIDs()).Delete(&models.PostTagRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN (?)", postIDs()).Delete(&models.PostMetaRow{}).Error; err != nil {
			return err
		}

		pageIDs := func() *gorm.DB { return tx.Table(pageTable).Select("id").Where("web_log_id = ?", id) }
		if err := tx.Where("page_id IN (?)", pageIDs()).Delete(&models.PageRevisionRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("page_id IN (?)", pageIDs()).Delete(&models.PagePermalinkRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("page_id IN (?)", pageIDs()).Delete(&models.PageMetaRow{}).Error; err != nil {
			return err
		}

		if err := tx.Where("web_log_id = ?", id).Delete(&models.Upload{}).Error; err != nil {
			return err
		}
		for _, table := range []string{postTable, pageTable, categoryTable, userTable, tagMapTable} {
			if err := tx.Table(table).Where("web_log_id = ?", id).Delete(&docstore.Row{}).Error; err != nil {
				return err
			}
		}
		return tx.Table(webLogTable).Where("id = ?", id).Delete(&docstore.Row{}).Error
	})
	if err != nil {
		return false, err
	}
	s.log.Info("web log deleted", zap.String("web_log_id", id))
	return true, nil
}
