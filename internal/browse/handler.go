package browse

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"bookhub/internal/catalog"
	"bookhub/internal/interchange"
	"bookhub/pkg/models"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Loader reads the current catalog contents. catalog.Store satisfies it.
type Loader interface {
	Load() ([]models.Book, error)
}

// Handler serves the catalog read-only. Every request reloads from the
// loader, so the catalog owner stays the only writer.
type Handler struct {
	Loader Loader
	Logger catalog.Logger
}

func NewHandler(loader Loader, logger catalog.Logger) *Handler {
	return &Handler{Loader: loader, Logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)        // GET /books
	rg.GET("/:id", h.getByID) // GET /books/:id
}

func (h *Handler) list(c *gin.Context) {
	status := strings.ToLower(strings.TrimSpace(c.Query("status")))
	if status != "" && status != "available" && status != "borrowed" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of: available, borrowed"})
		return
	}

	books, ok := h.load(c)
	if !ok {
		return
	}

	q := c.Query("q")
	matched := make([]models.Book, 0, len(books))
	for _, b := range books {
		if !catalog.Matches(b, q) {
			continue
		}
		if (status == "available" && b.IsBorrowed) || (status == "borrowed" && !b.IsBorrowed) {
			continue
		}
		matched = append(matched, b)
	}

	limit := parseInt(c.Query("limit"), defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	limit = min(limit, maxLimit)
	offset := parseInt(c.Query("offset"), 0)
	if offset < 0 {
		offset = 0
	}

	page := matched[min(offset, len(matched)):min(offset+limit, len(matched))]
	items := make([]interchange.JSONBook, 0, len(page))
	for _, b := range page {
		items = append(items, interchange.ToJSONBook(b))
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  len(matched),
		"limit":  limit,
		"offset": offset,
		"items":  items,
	})
}

func (h *Handler) getByID(c *gin.Context) {
	books, ok := h.load(c)
	if !ok {
		return
	}

	id := c.Param("id")
	for _, b := range books {
		if b.ID == id {
			c.JSON(http.StatusOK, interchange.ToJSONBook(b))
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

func (h *Handler) load(c *gin.Context) ([]models.Book, bool) {
	books, err := h.Loader.Load()
	if err != nil {
		if h.Logger != nil {
			h.Logger.Printf("[browse] load failed: %v", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return nil, false
	}
	return books, true
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
