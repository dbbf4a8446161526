package app

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-cms/core/internal/cache"
	"go.uber.org/zap"
)

// Router builds the thin consumer surface: tenant resolution, cached
// reads, and permalink lookup with redirect-on-rename. The full handler
// layer is an external collaborator.
func (a *App) Router() *gin.Engine {
	if !a.cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/weblogs/resolve", a.resolveWebLog)
	api.GET("/weblogs/:id/pages", a.listedPages)
	api.GET("/weblogs/:id/categories", a.categoryTree)
	api.GET("/weblogs/:id/permalink", a.lookupPermalink)
	return r
}

func (a *App) resolveWebLog(c *gin.Context) {
	webLog, ok := a.Registry.Resolve(c.Query("host"), c.Query("path"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "no web log matches"})
		return
	}
	c.JSON(http.StatusOK, webLog)
}

func (a *App) listedPages(c *gin.Context) {
	id := c.Param("id")
	pages, err := a.PageList.Get(id)
	if errors.Is(err, cache.ErrNotFilled) {
		if err := a.PageList.Update(c.Request.Context(), id); err != nil {
			a.log.Error("page list fill failed", zap.String("web_log_id", id), zap.Error(err))
			c.Status(http.StatusInternalServerError)
			return
		}
		pages, err = a.PageList.Get(id)
	}
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, pages)
}

func (a *App) categoryTree(c *gin.Context) {
	id := c.Param("id")
	cats, err := a.CategoryCache.Get(id)
	if errors.Is(err, cache.ErrNotFilled) {
		if err := a.CategoryCache.Update(c.Request.Context(), id); err != nil {
			a.log.Error("category fill failed", zap.String("web_log_id", id), zap.Error(err))
			c.Status(http.StatusInternalServerError)
			return
		}
		cats, err = a.CategoryCache.Get(id)
	}
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (a *App) lookupPermalink(c *gin.Context) {
	id := c.Param("id")
	path := c.Query("path")

	post, err := a.Posts.FindByPermalink(c.Request.Context(), id, path)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if post != nil {
		c.JSON(http.StatusOK, post)
		return
	}

	current, err := a.Posts.FindCurrentPermalink(c.Request.Context(), id, path)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if current == "" {
		c.JSON(http.StatusNotFound, gin.H{"message": "no post matches"})
		return
	}
	c.JSON(http.StatusMovedPermanently, gin.H{"permalink": current})
}
