package tasks

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tasktracker-app/tasktracker-backend/internal/auth"
	"github.com/tasktracker-app/tasktracker-backend/internal/projects"
)

// Store is the capability set the handlers need from task persistence.
type Store interface {
	List(ctx context.Context, f Filter, page Page) ([]Task, error)
	Count(ctx context.Context, f Filter) (int, error)
	GetByID(ctx context.Context, id int64) (*Task, error)
	Create(ctx context.Context, t *Task) (*Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id int64) error
}

// ProjectStore resolves referenced projects. Every task must point at an
// existing project at creation and update time.
type ProjectStore interface {
	GetByID(ctx context.Context, id int64) (*projects.Project, error)
}

type Handler struct {
	store    Store
	projects ProjectStore
}

func Register(rg *gin.RouterGroup, store Store, projectStore ProjectStore, requireAuth gin.HandlerFunc) {
	h := &Handler{store: store, projects: projectStore}

	rg.GET("", h.list)
	rg.POST("", requireAuth, h.create)
	rg.PUT("/:id", requireAuth, h.update)
	rg.DELETE("/:id", requireAuth, h.delete)
}

type upsertReq struct {
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Status      Status    `json:"status"`
	ProjectID   int64     `json:"projectId"`
}

func (h *Handler) list(c *gin.Context) {
	f, page, err := parseQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	items, err := h.store.List(ctx, f, page)
	if err != nil {
		h.internalError(c, "list tasks", err)
		return
	}

	total, err := h.store.Count(ctx, f)
	if err != nil {
		h.internalError(c, "count tasks", err)
		return
	}

	c.JSON(http.StatusOK, NewPagedResult(items, total, page))
}

func (h *Handler) create(c *gin.Context) {
	req, ok := h.bindUpsert(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	project, ok := h.resolveProject(c, req.ProjectID)
	if !ok {
		return
	}

	ident := auth.CurrentUser(c)
	created, err := h.store.Create(ctx, &Task{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
		ProjectID:   req.ProjectID,
		ProjectName: project.Name,
		OwnerID:     ident.UserID,
	})
	if err != nil {
		h.internalError(c, "create task", err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	req, ok := h.bindUpsert(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	task, err := h.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		h.internalError(c, "get task", err)
		return
	}

	if !auth.Owns(auth.CurrentUser(c), task.OwnerID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only update your own tasks"})
		return
	}

	project, ok := h.resolveProject(c, req.ProjectID)
	if !ok {
		return
	}

	task.Title = req.Title
	task.Description = req.Description
	task.DueDate = req.DueDate
	task.Status = req.Status
	task.ProjectID = req.ProjectID
	task.ProjectName = project.Name

	if err := h.store.Update(ctx, task); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		h.internalError(c, "update task", err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	task, err := h.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		h.internalError(c, "get task", err)
		return
	}

	if !auth.Owns(auth.CurrentUser(c), task.OwnerID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only delete your own tasks"})
		return
	}

	if err := h.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		h.internalError(c, "delete task", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) bindUpsert(c *gin.Context) (*upsertReq, bool) {
	var req upsertReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return nil, false
	}
	if req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return nil, false
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return nil, false
	}
	return &req, true
}

// resolveProject checks the referenced project exists. The check and the
// subsequent insert are separate calls, so a concurrent project delete can
// still slip in between; the tasks.project_id foreign key is the backstop.
func (h *Handler) resolveProject(c *gin.Context, projectID int64) (*projects.Project, bool) {
	project, err := h.projects.GetByID(c.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, projects.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
			return nil, false
		}
		h.internalError(c, "get project", err)
		return nil, false
	}
	return project, true
}

func parseQuery(c *gin.Context) (Filter, Page, error) {
	var f Filter

	if v := c.Query("status"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || !Status(n).Valid() {
			return f, Page{}, errors.New("invalid status filter")
		}
		s := Status(n)
		f.Status = &s
	}

	for _, q := range []struct {
		name string
		dst  **time.Time
	}{
		{"dueDateBefore", &f.DueBefore},
		{"dueDateAfter", &f.DueAfter},
	} {
		if v := c.Query(q.name); v != "" {
			t, err := parseTime(v)
			if err != nil {
				return f, Page{}, errors.New("invalid " + q.name)
			}
			*q.dst = &t
		}
	}

	if v := c.Query("projectId"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, Page{}, errors.New("invalid projectId")
		}
		f.ProjectID = &n
	}

	page := Page{Number: defaultPageNumber, Size: defaultPageSize}
	if v := c.Query("pageNumber"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, Page{}, errors.New("invalid pageNumber")
		}
		page.Number = n
	}
	if v := c.Query("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, Page{}, errors.New("invalid pageSize")
		}
		page.Size = n
	}

	return f, page.Normalize(), nil
}

func parseTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return 0, false
	}
	return id, true
}

func (h *Handler) internalError(c *gin.Context, op string, err error) {
	log.Printf("[tasks] %s: %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "an unexpected error occurred"})
}
