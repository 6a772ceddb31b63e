package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/tabletab/tabletab/internal/billing/domain"
)

type settleOrderRequest struct {
	Points        int64  `json:"points"`
	Total         int64  `json:"total"`
	PaymentMethod string `json:"payment_method"`
}

func (s *Server) SettleOrder(c *gin.Context) {
	var req settleOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.Settle(c.Request.Context(), billingdomain.SettleRequest{
		OrderID:       strings.TrimSpace(c.Param("id")),
		Points:        req.Points,
		Total:         req.Total,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBillByID(c *gin.Context) {
	resp, err := s.billingSvc.GetBill(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBillByOrder(c *gin.Context) {
	resp, err := s.billingSvc.GetBillByOrder(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBills(c *gin.Context) {
	from, to, err := parseDateRange(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.billingSvc.ListBills(c.Request.Context(), from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRevenueReport(c *gin.Context) {
	from, to, err := parseDateRange(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.billingSvc.Revenue(c.Request.Context(), from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBillReceipt(c *gin.Context) {
	reader, err := s.billingSvc.Receipt(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.DataFromReader(http.StatusOK, -1, "application/pdf", reader, nil)
}

// parseDateRange reads from/to query params as YYYY-MM-DD dates. The `to`
// bound is exclusive and defaults to tomorrow; `from` defaults to 30 days
// before `to`.
func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	const layout = "2006-01-02"

	to := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, newValidationError("to", "invalid_to", "invalid to date")
		}
		to = parsed.Add(24 * time.Hour)
	}

	from := to.Add(-31 * 24 * time.Hour)
	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, newValidationError("from", "invalid_from", "invalid from date")
		}
		from = parsed
	}

	return from, to, nil
}

func isBillingValidationError(err error) bool {
	switch err {
	case billingdomain.ErrInvalidRestaurant,
		billingdomain.ErrInvalidID,
		billingdomain.ErrInvalidPayment,
		billingdomain.ErrInvalidRange:
		return true
	default:
		return false
	}
}
