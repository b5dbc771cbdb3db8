package gallery

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pellicle-photo/pellicle/internal/store"
	"github.com/pellicle-photo/pellicle/internal/util"
)

// Handler serves the gallery's web routes.
type Handler interface {

	// RegisterRoutes attaches the gallery routes to the router.
	RegisterRoutes(r *gin.Engine)
}

// NewHandler creates a new gallery web handler, returning a pointer to the
// concrete implementation.
func NewHandler(svc Service) Handler {

	return &handler{
		svc: svc,

		galleryTmpl: template.Must(template.New("gallery").Parse(galleryTemplate)),

		logger: slog.Default().
			With(slog.String(util.PackageKey, util.PackageGallery)).
			With(slog.String(util.ComponentKey, util.ComponentWebHandler)),
	}
}

var _ Handler = (*handler)(nil)

// handler is the concrete implementation of the Handler interface.
type handler struct {
	svc Service

	galleryTmpl *template.Template

	logger *slog.Logger
}

// RegisterRoutes is the concrete implementation of the interface method
// which attaches the gallery routes to the router.
func (h *handler) RegisterRoutes(r *gin.Engine) {

	r.GET("/", h.handleIndex)
	r.GET("/gallery/:album_id", h.handleGallery)
	r.GET("/api/album/:album_id/manifest", h.handleManifest)
	r.GET("/api/album/:album_id/image/*path", h.handleImage)
}

// handleIndex serves the landing page.
func (h *handler) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
}

// handleGallery renders the album's gallery page from its manifest.
func (h *handler) handleGallery(c *gin.Context) {

	albumID := c.Param("album_id")

	m, err := h.svc.GetManifest(c.Request.Context(), albumID, false)
	if err != nil {
		if errors.Is(err, ErrAlbumNotFound) {
			c.Data(http.StatusNotFound, "text/html; charset=utf-8", []byte(notFoundPage))
			return
		}
		h.logger.Error(fmt.Sprintf("failed to load album %s: %v", albumID, err))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.galleryTmpl.Execute(c.Writer, m); err != nil {
		h.logger.Error(fmt.Sprintf("failed to render gallery page for album %s: %v", albumID, err))
	}
}

// handleManifest serves the album manifest as json. With ?presign=1 the
// entries carry time-limited signed urls.
func (h *handler) handleManifest(c *gin.Context) {

	albumID := c.Param("album_id")
	presign := c.Query("presign") == "1" || c.Query("presign") == "true"

	m, err := h.svc.GetManifest(c.Request.Context(), albumID, presign)
	if err != nil {
		if errors.Is(err, ErrAlbumNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "album not found"})
			return
		}
		h.logger.Error(fmt.Sprintf("failed to load manifest for album %s: %v", albumID, err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, m)
}

// handleImage proxies one rendition's bytes from the object store.
func (h *handler) handleImage(c *gin.Context) {

	albumID := c.Param("album_id")
	relPath := c.Param("path")

	data, contentType, err := h.svc.GetImage(c.Request.Context(), albumID, relPath)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
			return
		}
		h.logger.Error(fmt.Sprintf("failed to fetch image %s for album %s: %v", relPath, albumID, err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Data(http.StatusOK, contentType, data)
}
