package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type MarotoProvider struct{}

func NewMarotoProvider() Provider {
	return &MarotoProvider{}
}

func (p *MarotoProvider) GenerateReceipt(ctx context.Context, data ReceiptData) (io.Reader, error) {
	cfg := config.NewBuilder().Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(12, data.RestaurantName, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)
	m.AddRow(12,
		col.New(12).Add(
			text.New(data.RestaurantAddress, props.Text{Size: 9, Align: align.Center}),
			text.New(data.RestaurantPhone, props.Text{Size: 9, Align: align.Center, Top: 4}),
		),
	)

	m.AddRow(18,
		col.New(6).Add(
			text.New("Bill: "+data.BillNumber, props.Text{Size: 9}),
			text.New("Table: "+data.TableLabel, props.Text{Size: 9, Top: 4}),
			text.New("Customer: "+data.CustomerName, props.Text{Size: 9, Top: 8}),
		),
		col.New(6).Add(
			text.New("Date: "+data.IssuedAt, props.Text{Size: 9, Align: align.Right}),
			text.New("Paid by: "+data.PaymentMethod, props.Text{Size: 9, Align: align.Right, Top: 4}),
		),
	)

	m.AddRow(8,
		text.NewCol(6, "Item", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, line := range data.Lines {
		m.AddRow(8,
			text.NewCol(6, line.Name, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", line.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, line.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, line.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9}),
		text.NewCol(2, data.Subtotal, props.Text{Size: 9, Align: align.Right}),
	)
	if data.VAT != "" {
		m.AddRow(8,
			col.New(8),
			text.NewCol(2, "VAT", props.Text{Size: 9}),
			text.NewCol(2, data.VAT, props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Size: 10, Style: fontstyle.Bold}),
		text.NewCol(2, data.Total, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)

	if data.PointsUsed > 0 {
		m.AddRow(8,
			text.NewCol(12, fmt.Sprintf("Points redeemed: %d", data.PointsUsed), props.Text{Size: 9}),
		)
	}
	if data.PointsEarned > 0 {
		m.AddRow(8,
			text.NewCol(12, fmt.Sprintf("Points earned: %d", data.PointsEarned), props.Text{Size: 9}),
		)
	}

	if data.FooterText != "" {
		m.AddRow(14,
			text.NewCol(12, data.FooterText, props.Text{Size: 9, Align: align.Center, Top: 6}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}
