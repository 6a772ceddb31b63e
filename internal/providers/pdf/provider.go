package pdf

import (
	"context"
	"io"
)

type ReceiptLine struct {
	Name      string
	Quantity  int64
	UnitPrice string
	Amount    string
}

type ReceiptData struct {
	RestaurantName    string
	RestaurantAddress string
	RestaurantPhone   string

	BillNumber    string
	TableLabel    string
	CustomerName  string
	IssuedAt      string
	PaymentMethod string

	Lines []ReceiptLine

	Subtotal string
	VAT      string
	Total    string

	PointsUsed   int64
	PointsEarned int64

	FooterText string
}

type Provider interface {
	GenerateReceipt(ctx context.Context, data ReceiptData) (io.Reader, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateReceipt(ctx context.Context, data ReceiptData) (io.Reader, error) {
	return nil, nil
}
