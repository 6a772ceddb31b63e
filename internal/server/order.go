package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/tabletab/tabletab/internal/order/domain"
)

type openOrderRequest struct {
	TableID       string `json:"table_id"`
	CustomerPhone string `json:"customer_phone"`
	EmployeeID    string `json:"employee_id"`
}

func (s *Server) OpenOrder(c *gin.Context) {
	var req openOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.Open(c.Request.Context(), orderdomain.OpenOrderRequest{
		TableID:       strings.TrimSpace(req.TableID),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		EmployeeID:    strings.TrimSpace(req.EmployeeID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type addOrderLinesRequest struct {
	Lines []struct {
		DishID   string `json:"dish_id"`
		ComboID  string `json:"combo_id"`
		Quantity int64  `json:"quantity"`
	} `json:"lines"`
}

func (s *Server) AddOrderLines(c *gin.Context) {
	var req addOrderLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	lines := make([]orderdomain.LineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, orderdomain.LineInput{
			DishID:   strings.TrimSpace(line.DishID),
			ComboID:  strings.TrimSpace(line.ComboID),
			Quantity: line.Quantity,
		})
	}

	resp, err := s.orderSvc.AddLines(c.Request.Context(), orderdomain.AddLinesRequest{
		OrderID: strings.TrimSpace(c.Param("id")),
		Lines:   lines,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetOrderView(c *gin.Context) {
	resp, err := s.orderSvc.View(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetOrderByTable(c *gin.Context) {
	resp, err := s.orderSvc.FindByTable(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type advanceOrderLineRequest struct {
	Status string `json:"status"`
}

func (s *Server) AdvanceOrderLine(c *gin.Context) {
	var req advanceOrderLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	status, err := orderdomain.ParseLineStatus(strings.TrimSpace(req.Status))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.orderSvc.AdvanceLine(c.Request.Context(), strings.TrimSpace(c.Param("id")), status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isOrderValidationError(err error) bool {
	switch err {
	case orderdomain.ErrInvalidRestaurant,
		orderdomain.ErrInvalidID,
		orderdomain.ErrInvalidStatus:
		return true
	default:
		return false
	}
}
