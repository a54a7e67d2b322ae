// Package export writes console lists as .xlsx workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/avvvet/nobleco-console/internal/console/format"
	"github.com/avvvet/nobleco-console/internal/console/models"
	"github.com/avvvet/nobleco-console/internal/console/service"
	"github.com/xuri/excelize/v2"
)

const (
	OrdersSheet  = "Orders"
	ClientsSheet = "Clients"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var vndFormat = `#,##0 "₫"`

var orderHeader = []interface{}{
	"Order number", "Status", "Payment status", "Payment method", "Client", "Created by",
	"Subtotal", "Discount", "Tax", "Total", "Created at",
}

var clientHeader = []interface{}{
	"Name", "Phone", "Email", "Gender", "Birthday", "Location", "Orders", "Created by", "Created at",
}

// Orders writes one row per order. Amounts stay numeric with a VND format.
func Orders(w io.Writer, orders []models.Order) error {
	rows := make([][]interface{}, len(orders))
	for i, o := range orders {
		rows[i] = []interface{}{
			o.OrderNumber,
			service.OrderStatus(o.Status).Label,
			o.PaymentStatus,
			o.PaymentMethod,
			partyName(o.Client),
			partyName(o.Creator),
			o.Subtotal.Round(0).IntPart(),
			o.DiscountAmount.Round(0).IntPart(),
			o.TaxAmount.Round(0).IntPart(),
			o.TotalAmount.Round(0).IntPart(),
			format.DateTime(o.CreatedAt),
		}
	}
	return write(w, OrdersSheet, orderHeader, rows, "G", "J")
}

func Clients(w io.Writer, clients []models.Client) error {
	rows := make([][]interface{}, len(clients))
	for i, c := range clients {
		rows[i] = []interface{}{
			c.Name,
			c.Phone,
			c.Email,
			c.Gender,
			c.Birthday,
			c.Location,
			c.OrderCount,
			partyName(c.CreatedBy),
			format.Date(c.CreatedAt),
		}
	}
	return write(w, ClientsSheet, clientHeader, rows, "", "")
}

// write fills a single-sheet workbook; moneyFrom..moneyTo columns get the
// VND number format.
func write(w io.Writer, sheet string, header []interface{}, rows [][]interface{}, moneyFrom, moneyTo string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return err
	}

	if moneyFrom != "" && len(rows) > 0 {
		money, err := f.NewStyle(&excelize.Style{CustomNumFmt: &vndFormat})
		if err != nil {
			return err
		}
		top := moneyFrom + "2"
		bottom := fmt.Sprintf("%s%d", moneyTo, len(rows)+1)
		if err := f.SetCellStyle(sheet, top, bottom, money); err != nil {
			return err
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func partyName(p *models.OrderParty) string {
	if p == nil {
		return ""
	}
	return p.Name
}
