package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalMoney(t *testing.T) {
	lines := []OrderLine{
		{Name: "Pho Bo", UnitPrice: 50000, Quantity: 2, Status: LineStatusDone},
		{Name: "Spring Rolls", UnitPrice: 30000, Quantity: 1, Status: LineStatusWaiting},
		{Name: "Beer", UnitPrice: 20000, Quantity: 3, Status: LineStatusDecline},
	}

	assert.Equal(t, int64(130000), TotalMoney(lines, false, 0))
	assert.Equal(t, int64(143000), TotalMoney(lines, true, 10))

	// A disabled flag wins over a configured rate, and vice versa.
	assert.Equal(t, int64(130000), TotalMoney(lines, false, 10))
	assert.Equal(t, int64(130000), TotalMoney(lines, true, 0))
}

func TestTotalMoneyRoundsHalfUp(t *testing.T) {
	lines := []OrderLine{{UnitPrice: 15, Quantity: 1, Status: LineStatusDone}}

	// 15 * 1.1 = 16.5 rounds away from zero.
	assert.Equal(t, int64(17), TotalMoney(lines, true, 10))
}

func TestTotalMoneyEmpty(t *testing.T) {
	assert.Equal(t, int64(0), TotalMoney(nil, true, 10))
	assert.Equal(t, int64(0), TotalMoney([]OrderLine{
		{UnitPrice: 50000, Quantity: 1, Status: LineStatusDecline},
	}, true, 10))
}

func TestTotalDish(t *testing.T) {
	lines := []OrderLine{
		{Quantity: 2, Status: LineStatusDone},
		{Quantity: 1, Status: LineStatusPrepare},
		{Quantity: 4, Status: LineStatusDecline},
	}
	assert.Equal(t, int64(3), TotalDish(lines))
}

func TestParseLineStatus(t *testing.T) {
	for _, valid := range []string{"waiting", "prepare", "done", "decline"} {
		status, err := ParseLineStatus(valid)
		assert.NoError(t, err)
		assert.Equal(t, LineStatus(valid), status)
	}

	_, err := ParseLineStatus("cooked")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
