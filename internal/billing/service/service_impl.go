package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tabletab/tabletab/internal/billing/domain"
	"github.com/tabletab/tabletab/internal/clock"
	"github.com/tabletab/tabletab/internal/config"
	customerdomain "github.com/tabletab/tabletab/internal/customer/domain"
	"github.com/tabletab/tabletab/internal/observability/metrics"
	orderdomain "github.com/tabletab/tabletab/internal/order/domain"
	"github.com/tabletab/tabletab/internal/providers/pdf"
	restaurantdomain "github.com/tabletab/tabletab/internal/restaurant/domain"
	"github.com/tabletab/tabletab/internal/restaurantctx"
	tabledomain "github.com/tabletab/tabletab/internal/table/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultPaymentMethod = "cash"

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	OrderRepo   orderdomain.Repository
	TableRepo   tabledomain.Repository
	Customers   customerdomain.Service
	Restaurants restaurantdomain.Service
	PDF         pdf.Provider
	POS         *config.POSConfigHolder
	Metrics     *metrics.Metrics
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	orderRepo   orderdomain.Repository
	tableRepo   tabledomain.Repository
	customers   customerdomain.Service
	restaurants restaurantdomain.Service
	pdf         pdf.Provider
	pos         *config.POSConfigHolder
	metrics     *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("billing.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		orderRepo:   p.OrderRepo,
		tableRepo:   p.TableRepo,
		customers:   p.Customers,
		restaurants: p.Restaurants,
		pdf:         p.PDF,
		pos:         p.POS,
		metrics:     p.Metrics,
	}
}

func (s *Service) Settle(ctx context.Context, req domain.SettleRequest) (domain.Bill, error) {
	restaurantID, ok := restaurantctx.RestaurantIDFromContext(ctx)
	if !ok || restaurantID == 0 {
		return domain.Bill{}, domain.ErrInvalidRestaurant
	}

	orderID, err := s.parseID(req.OrderID)
	if err != nil {
		return domain.Bill{}, err
	}
	if req.Points < 0 {
		return domain.Bill{}, customerdomain.ErrInvalidPoints
	}

	method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if method == "" {
		method = defaultPaymentMethod
	}

	var (
		bill   domain.Bill
		earned int64
	)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order == nil || order.RestaurantID != restaurantID {
			return orderdomain.ErrNotFound
		}

		settled, err := s.orderRepo.HasBill(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if settled {
			return orderdomain.ErrSettled
		}

		restaurant, err := s.restaurants.GetByID(ctx, order.RestaurantID.String())
		if err != nil {
			return err
		}
		if !paymentMethodAllowed(restaurant, method) {
			return domain.ErrInvalidPayment
		}

		items, err := s.orderRepo.LinesByOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		lines := make([]orderdomain.OrderLine, 0, len(items))
		for _, item := range items {
			if item == nil {
				continue
			}
			lines = append(lines, *item)
		}

		// Totals come from the line snapshot held under the order lock,
		// never from the request. Client-declared totals are only logged
		// when they disagree.
		total := orderdomain.TotalMoney(lines, restaurant.VATEnabled, restaurant.VATRate)
		if req.Total != 0 && req.Total != total {
			s.log.Warn("client total mismatch",
				zap.String("order_id", orderID.String()),
				zap.Int64("client_total", req.Total),
				zap.Int64("computed_total", total),
			)
		}

		var pointUsed int64
		if req.Points != 0 {
			if _, err := s.customers.ApplyRedeem(ctx, tx, order.CustomerID, req.Points); err != nil {
				return err
			}
			pointUsed = req.Points
		} else {
			if _, earned, err = s.customers.ApplyEarn(ctx, tx, order.CustomerID, total, restaurant.MoneyToPoint); err != nil {
				return err
			}
		}

		bill = domain.Bill{
			ID:            s.genID.Generate(),
			OrderID:       orderID,
			RestaurantID:  order.RestaurantID,
			Total:         total,
			PointUsed:     pointUsed,
			PointEarned:   earned,
			PaymentMethod: method,
			CreatedAt:     s.clock.Now(),
		}
		inserted, err := s.repo.Insert(ctx, tx, &bill)
		if err != nil {
			return err
		}
		if !inserted {
			return orderdomain.ErrSettled
		}

		// Table release is the last write so a rollback leaves the table
		// occupied and the ledger untouched.
		return s.tableRepo.SetCurrentOrder(ctx, tx, order.TableID, nil)
	})
	if err != nil {
		s.metrics.SettlementFailed(errorCode(err))
		return domain.Bill{}, err
	}

	s.metrics.BillSettled(method)
	s.metrics.PointsRedeemed(bill.PointUsed)
	s.metrics.PointsEarned(bill.PointEarned)
	s.log.Info("order settled",
		zap.String("bill_id", bill.ID.String()),
		zap.String("order_id", orderID.String()),
		zap.Int64("total", bill.Total),
		zap.Int64("point_used", bill.PointUsed),
		zap.Int64("point_earned", bill.PointEarned),
		zap.String("payment_method", method),
	)
	return bill, nil
}

func (s *Service) GetBill(ctx context.Context, id string) (domain.Bill, error) {
	parsed, err := s.parseID(id)
	if err != nil {
		return domain.Bill{}, err
	}

	bill, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Bill{}, err
	}
	if bill == nil {
		return domain.Bill{}, domain.ErrNotFound
	}
	return *bill, nil
}

func (s *Service) GetBillByOrder(ctx context.Context, orderID string) (domain.Bill, error) {
	parsed, err := s.parseID(orderID)
	if err != nil {
		return domain.Bill{}, err
	}

	bill, err := s.repo.FindByOrder(ctx, s.db, parsed)
	if err != nil {
		return domain.Bill{}, err
	}
	if bill == nil {
		return domain.Bill{}, domain.ErrNotFound
	}
	return *bill, nil
}

func (s *Service) ListBills(ctx context.Context, from, to time.Time) ([]domain.Bill, error) {
	restaurantID, ok := restaurantctx.RestaurantIDFromContext(ctx)
	if !ok || restaurantID == 0 {
		return nil, domain.ErrInvalidRestaurant
	}
	if !to.After(from) {
		return nil, domain.ErrInvalidRange
	}

	items, err := s.repo.List(ctx, s.db, restaurantID, from, to)
	if err != nil {
		return nil, err
	}

	bills := make([]domain.Bill, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		bills = append(bills, *item)
	}
	return bills, nil
}

func (s *Service) Revenue(ctx context.Context, from, to time.Time) (domain.RevenueReport, error) {
	restaurantID, ok := restaurantctx.RestaurantIDFromContext(ctx)
	if !ok || restaurantID == 0 {
		return domain.RevenueReport{}, domain.ErrInvalidRestaurant
	}

	bills, err := s.ListBills(ctx, from, to)
	if err != nil {
		return domain.RevenueReport{}, err
	}

	restaurant, err := s.restaurants.GetByID(ctx, restaurantID.String())
	if err != nil {
		return domain.RevenueReport{}, err
	}

	report := domain.RevenueReport{From: from, To: to}
	byDay := map[string]*domain.DailyRevenue{}
	order := make([]string, 0)
	for _, bill := range bills {
		report.Total += bill.Total

		day := bill.CreatedAt.Format("2006-01-02")
		entry, ok := byDay[day]
		if !ok {
			entry = &domain.DailyRevenue{Date: day}
			byDay[day] = entry
			order = append(order, day)
		}
		entry.Total += bill.Total
		entry.Bills++
	}
	for _, day := range order {
		report.Days = append(report.Days, *byDay[day])
	}

	if restaurant.VATEnabled && restaurant.VATRate > 0 {
		report.VATPortion = int64(math.Round(float64(report.Total) * restaurant.VATRate / (100 + restaurant.VATRate)))
	}
	return report, nil
}

func (s *Service) Receipt(ctx context.Context, id string) (io.Reader, error) {
	bill, err := s.GetBill(ctx, id)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, s.db, bill.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, orderdomain.ErrNotFound
	}

	items, err := s.orderRepo.LinesByOrder(ctx, s.db, bill.OrderID)
	if err != nil {
		return nil, err
	}

	restaurant, err := s.restaurants.GetByID(ctx, bill.RestaurantID.String())
	if err != nil {
		return nil, err
	}
	customer, err := s.customers.GetByID(ctx, order.CustomerID.String())
	if err != nil && !errors.Is(err, customerdomain.ErrNotFound) {
		return nil, err
	}
	table, err := s.tableRepo.FindByID(ctx, s.db, order.TableID)
	if err != nil {
		return nil, err
	}

	var subtotal int64
	data := pdf.ReceiptData{
		RestaurantName:    restaurant.Name,
		RestaurantAddress: restaurant.Address,
		RestaurantPhone:   restaurant.Phone,
		BillNumber:        bill.ID.String(),
		CustomerName:      customer.Name,
		IssuedAt:          bill.CreatedAt.Format("2006-01-02 15:04"),
		PaymentMethod:     bill.PaymentMethod,
		PointsUsed:        bill.PointUsed,
		PointsEarned:      bill.PointEarned,
		FooterText:        s.pos.Current().ReceiptFooter,
	}
	if table != nil {
		data.TableLabel = table.Label
	}
	for _, item := range items {
		if item == nil || item.Status == orderdomain.LineStatusDecline {
			continue
		}
		amount := item.UnitPrice * item.Quantity
		subtotal += amount
		data.Lines = append(data.Lines, pdf.ReceiptLine{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: formatMoney(item.UnitPrice),
			Amount:    formatMoney(amount),
		})
	}
	data.Subtotal = formatMoney(subtotal)
	data.Total = formatMoney(bill.Total)
	if vat := bill.Total - subtotal; vat > 0 {
		data.VAT = formatMoney(vat)
	}

	return s.pdf.GenerateReceipt(ctx, data)
}

func paymentMethodAllowed(restaurant restaurantdomain.Restaurant, method string) bool {
	if len(restaurant.PaymentMethods) == 0 {
		return method == defaultPaymentMethod
	}
	for _, allowed := range restaurant.PaymentMethods {
		if strings.EqualFold(allowed, method) {
			return true
		}
	}
	return false
}

func errorCode(err error) string {
	if err == nil {
		return "unknown"
	}
	switch {
	case errors.Is(err, orderdomain.ErrNotFound),
		errors.Is(err, orderdomain.ErrSettled),
		errors.Is(err, customerdomain.ErrPointInvalid),
		errors.Is(err, customerdomain.ErrInvalidPoints),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, domain.ErrInvalidPayment):
		return err.Error()
	}
	return "internal"
}

func formatMoney(amount int64) string {
	return fmt.Sprintf("%d", amount)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
