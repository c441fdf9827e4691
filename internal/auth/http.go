package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tasktracker-app/tasktracker-backend/internal/users"
)

// UserStore is the slice of the user repository the auth endpoints need.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (*users.User, error)
	GetByUsername(ctx context.Context, username string) (*users.User, error)
	Exists(ctx context.Context, username, email string) (bool, error)
}

type Handler struct {
	store  UserStore
	hasher Hasher
	tokens *TokenService
}

func Register(rg *gin.RouterGroup, store UserStore, hasher Hasher, tokens *TokenService) {
	h := &Handler{store: store, hasher: hasher, tokens: tokens}

	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
}

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResp struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if req.Username == "" || strings.TrimSpace(req.Password) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}
	if req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	ctx := c.Request.Context()

	exists, err := h.store.Exists(ctx, req.Username, req.Email)
	if err != nil {
		h.internalError(c, "check user exists", err)
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username or email already exists"})
		return
	}

	digest, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.internalError(c, "hash password", err)
		return
	}

	user, err := h.store.Create(ctx, req.Username, req.Email, digest)
	if err != nil {
		if errors.Is(err, users.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username or email already exists"})
			return
		}
		h.internalError(c, "create user", err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.internalError(c, "issue token", err)
		return
	}

	c.JSON(http.StatusOK, authResp{Token: token, UserID: user.ID, Username: user.Username})
}

func (h *Handler) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	user, err := h.store.GetByUsername(c.Request.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			// same message as a wrong password, so callers can't probe for
			// registered usernames
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		h.internalError(c, "get user", err)
		return
	}

	if !h.hasher.Verify(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.internalError(c, "issue token", err)
		return
	}

	c.JSON(http.StatusOK, authResp{Token: token, UserID: user.ID, Username: user.Username})
}

func (h *Handler) internalError(c *gin.Context, op string, err error) {
	log.Printf("[auth] %s: %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "an unexpected error occurred"})
}
