package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	restaurantdomain "github.com/tabletab/tabletab/internal/restaurant/domain"
)

type createRestaurantRequest struct {
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	Phone          string   `json:"phone"`
	PaymentMethods []string `json:"payment_methods"`
}

func (s *Server) CreateRestaurant(c *gin.Context) {
	var req createRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.restaurantSvc.Create(c.Request.Context(), restaurantdomain.CreateRestaurantRequest{
		Name:           strings.TrimSpace(req.Name),
		Address:        strings.TrimSpace(req.Address),
		Phone:          strings.TrimSpace(req.Phone),
		PaymentMethods: req.PaymentMethods,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListRestaurants(c *gin.Context) {
	resp, err := s.restaurantSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRestaurantByID(c *gin.Context) {
	resp, err := s.restaurantSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateRestaurantSettingsRequest struct {
	MoneyToPoint *int64   `json:"money_to_point"`
	PointToMoney *int64   `json:"point_to_money"`
	VATEnabled   *bool    `json:"vat_enabled"`
	VATRate      *float64 `json:"vat_rate"`
}

func (s *Server) UpdateRestaurantSettings(c *gin.Context) {
	var req updateRestaurantSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.restaurantSvc.UpdateSettings(c.Request.Context(), restaurantdomain.UpdateSettingsRequest{
		ID:           strings.TrimSpace(c.Param("id")),
		MoneyToPoint: req.MoneyToPoint,
		PointToMoney: req.PointToMoney,
		VATEnabled:   req.VATEnabled,
		VATRate:      req.VATRate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isRestaurantValidationError(err error) bool {
	switch err {
	case restaurantdomain.ErrInvalidName,
		restaurantdomain.ErrInvalidID,
		restaurantdomain.ErrInvalidLoyalty,
		restaurantdomain.ErrInvalidVATRate:
		return true
	default:
		return false
	}
}
