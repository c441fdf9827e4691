package projects

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tasktracker-app/tasktracker-backend/internal/auth"
)

// Store is the capability set the handlers need from persistence.
type Store interface {
	Create(ctx context.Context, ownerID int64, name string, description *string) (*Project, error)
	GetByID(ctx context.Context, id int64) (*Project, error)
	List(ctx context.Context) ([]Project, error)
	Update(ctx context.Context, id int64, name string, description *string) (*Project, error)
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	store Store
}

// Register wires the project routes. Reads are open; mutations go through
// the auth middleware.
func Register(rg *gin.RouterGroup, store Store, requireAuth gin.HandlerFunc) {
	h := &Handler{store: store}

	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.POST("", requireAuth, h.create)
	rg.PUT("/:id", requireAuth, h.update)
	rg.DELETE("/:id", requireAuth, h.delete)
}

type upsertReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.store.List(c.Request.Context())
	if err != nil {
		h.internalError(c, "list projects", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	p, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.internalError(c, "get project", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) create(c *gin.Context) {
	var req upsertReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	ident := auth.CurrentUser(c)
	p, err := h.store.Create(c.Request.Context(), ident.UserID, strings.TrimSpace(req.Name), req.Description)
	if err != nil {
		h.internalError(c, "create project", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req upsertReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	ctx := c.Request.Context()

	existing, err := h.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.internalError(c, "get project", err)
		return
	}

	if !auth.Owns(auth.CurrentUser(c), existing.OwnerID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only update your own projects"})
		return
	}

	p, err := h.store.Update(ctx, id, strings.TrimSpace(req.Name), req.Description)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.internalError(c, "update project", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	existing, err := h.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.internalError(c, "get project", err)
		return
	}

	if !auth.Owns(auth.CurrentUser(c), existing.OwnerID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only delete your own projects"})
		return
	}

	if err := h.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		h.internalError(c, "delete project", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return 0, false
	}
	return id, true
}

func (h *Handler) internalError(c *gin.Context, op string, err error) {
	log.Printf("[projects] %s: %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "an unexpected error occurred"})
}
