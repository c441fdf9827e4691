package dashboard

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func Register(rg *gin.RouterGroup, svc *Service) {
	h := &Handler{svc: svc}

	rg.GET("", h.get)
}

func (h *Handler) get(c *gin.Context) {
	stats, err := h.svc.Get(c.Request.Context())
	if err != nil {
		log.Printf("[dashboard] get stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "an unexpected error occurred"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
