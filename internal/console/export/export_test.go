package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/avvvet/nobleco-console/internal/console/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestOrdersWorkbook(t *testing.T) {
	var buf bytes.Buffer
	err := Orders(&buf, []models.Order{{
		OrderNumber:   "ORD-001",
		Status:        models.OrderShipped,
		PaymentStatus: "pending",
		Client:        &models.OrderParty{Name: "Le C"},
		TotalAmount:   decimal.NewFromInt(1234567),
		CreatedAt:     time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC),
	}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(OrdersSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Order number", rows[0][0])
	assert.Equal(t, "ORD-001", rows[1][0])
	assert.Equal(t, "Shipped", rows[1][1])
	assert.Equal(t, "Le C", rows[1][4])
	assert.Equal(t, "1234567", rows[1][9])
	assert.Equal(t, "08:00:00 01/03/2026", rows[1][10])
}

func TestClientsWorkbookEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Clients(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ClientsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Name", rows[0][0])
}
