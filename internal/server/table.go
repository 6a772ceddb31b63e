package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	tabledomain "github.com/tabletab/tabletab/internal/table/domain"
)

type createTableRequest struct {
	Label    string `json:"label"`
	Capacity int    `json:"capacity"`
	Position string `json:"position"`
}

func (s *Server) CreateTable(c *gin.Context) {
	var req createTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tableSvc.Create(c.Request.Context(), tabledomain.CreateTableRequest{
		Label:    strings.TrimSpace(req.Label),
		Capacity: req.Capacity,
		Position: strings.TrimSpace(req.Position),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTables(c *gin.Context) {
	resp, err := s.tableSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTableByID(c *gin.Context) {
	resp, err := s.tableSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ReleaseTable(c *gin.Context) {
	if err := s.tableSvc.Release(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"released": true}})
}

func isTableValidationError(err error) bool {
	switch err {
	case tabledomain.ErrInvalidRestaurant,
		tabledomain.ErrInvalidLabel,
		tabledomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
