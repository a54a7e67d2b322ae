package service

import (
	"context"
	"strconv"

	"github.com/avvvet/nobleco-console/internal/console/api"
	"github.com/avvvet/nobleco-console/internal/console/format"
	"github.com/avvvet/nobleco-console/internal/console/models"
)

// FullscreenMinWidth is the narrowest viewport that may open the order
// detail fullscreen.
const FullscreenMinWidth = 768

type StatusView struct {
	Label string `json:"label"`
	Class string `json:"class"`
}

var orderStatusViews = map[string]StatusView{
	models.OrderPending:    {Label: "Pending", Class: "status-pending"},
	models.OrderProcessing: {Label: "Processing", Class: "status-processing"},
	models.OrderConfirmed:  {Label: "Confirmed", Class: "status-confirmed"},
	models.OrderShipped:    {Label: "Shipped", Class: "status-shipped"},
	models.OrderDelivered:  {Label: "Delivered", Class: "status-delivered"},
	models.OrderCompleted:  {Label: "Completed", Class: "status-completed"},
	models.OrderCancelled:  {Label: "Cancelled", Class: "status-cancelled"},
	models.OrderRefunded:   {Label: "Refunded", Class: "status-refunded"},
}

// OrderStatus displays whatever status the server sent; unknown values
// keep their raw text.
func OrderStatus(status string) StatusView {
	if v, ok := orderStatusViews[status]; ok {
		return v
	}
	return StatusView{Label: status, Class: "status-unknown"}
}

func FullscreenAvailable(viewportWidth int) bool {
	return viewportWidth >= FullscreenMinWidth
}

type OrderRow struct {
	models.Order
	StatusView     StatusView `json:"status_view"`
	TotalDisplay   string     `json:"total_display"`
	CreatedDisplay string     `json:"created_display"`
	CanTestPayment bool       `json:"can_test_payment"`
}

type OrderItemView struct {
	models.OrderItem
	UnitPriceDisplay string `json:"unit_price_display"`
	DiscountDisplay  string `json:"discount_display"`
	LineTotalDisplay string `json:"line_total_display"`
}

type OrderDetail struct {
	OrderRow
	Items               []OrderItemView `json:"items"`
	SubtotalDisplay     string          `json:"subtotal_display"`
	DiscountDisplay     string          `json:"discount_display"`
	TaxDisplay          string          `json:"tax_display"`
	UpdatedDisplay      string          `json:"updated_display"`
	FullscreenAvailable bool            `json:"fullscreen_available"`
	Fullscreen          bool            `json:"fullscreen"`
}

func NewOrderRow(o models.Order) OrderRow {
	return OrderRow{
		Order:          o,
		StatusView:     OrderStatus(o.Status),
		TotalDisplay:   format.VND(o.TotalAmount),
		CreatedDisplay: format.DateTime(o.CreatedAt),
		CanTestPayment: o.TestPaymentAllowed(),
	}
}

type OrderService struct {
	api   *api.Client
	audit *AuditService
}

func NewOrderService(client *api.Client, audit *AuditService) *OrderService {
	return &OrderService{api: client, audit: audit}
}

func (s *OrderService) List(ctx context.Context) ([]OrderRow, error) {
	orders, err := s.api.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]OrderRow, len(orders))
	for i, o := range orders {
		rows[i] = NewOrderRow(o)
	}
	return rows, nil
}

// Detail loads the full order with items. Fullscreen is honoured only when
// the viewport is wide enough.
func (s *OrderService) Detail(ctx context.Context, id int64, viewportWidth int, fullscreen bool) (*OrderDetail, error) {
	o, err := s.api.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &OrderDetail{
		OrderRow:            NewOrderRow(*o),
		Items:               make([]OrderItemView, len(o.Items)),
		SubtotalDisplay:     format.VND(o.Subtotal),
		DiscountDisplay:     format.VND(o.DiscountAmount),
		TaxDisplay:          format.VND(o.TaxAmount),
		UpdatedDisplay:      format.DateTime(o.UpdatedAt),
		FullscreenAvailable: FullscreenAvailable(viewportWidth),
	}
	d.Fullscreen = fullscreen && d.FullscreenAvailable
	for i, it := range o.Items {
		d.Items[i] = OrderItemView{
			OrderItem:        it,
			UnitPriceDisplay: format.VND(it.UnitPrice),
			DiscountDisplay:  format.VND(it.Discount),
			LineTotalDisplay: format.VND(it.LineTotal),
		}
	}
	return d, nil
}

// TestPayment runs the test payment when the order still allows it, then
// reloads the whole list.
func (s *OrderService) TestPayment(ctx context.Context, actor *models.User, id int64) ([]OrderRow, error) {
	o, err := s.api.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.TestPaymentAllowed() {
		return nil, ErrTestPaymentUnavailable
	}
	if err := s.api.TestPayment(ctx, id); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, ActionOrderTestPayment, "order:"+strconv.FormatInt(id, 10), o.OrderNumber)
	return s.List(ctx)
}

func (s *OrderService) Delete(ctx context.Context, actor *models.User, id int64, confirmed bool) ([]OrderRow, error) {
	if !confirmed {
		return nil, ErrConfirmationRequired
	}
	if err := s.api.DeleteOrder(ctx, id); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, ActionOrderDelete, "order:"+strconv.FormatInt(id, 10), "")
	return s.List(ctx)
}

// Orders returns the raw orders for exports.
func (s *OrderService) Orders(ctx context.Context) ([]models.Order, error) {
	return s.api.ListOrders(ctx)
}
