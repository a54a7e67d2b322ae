package service

import (
	"context"

	"github.com/avvvet/nobleco-console/internal/console/api"
	"github.com/avvvet/nobleco-console/internal/console/format"
	"github.com/avvvet/nobleco-console/internal/console/models"
)

type ProductDetail struct {
	models.Product
	PriceDisplay   string `json:"price_display"`
	CreatedDisplay string `json:"created_display"`
	InStock        bool   `json:"in_stock"`
}

type ProductService struct {
	api *api.Client
}

func NewProductService(client *api.Client) *ProductService {
	return &ProductService{api: client}
}

func (s *ProductService) Detail(ctx context.Context, id int64) (*ProductDetail, error) {
	p, err := s.api.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProductDetail{
		Product:        *p,
		PriceDisplay:   format.VND(p.Price),
		CreatedDisplay: format.Date(p.CreatedAt),
		InStock:        p.Stock > 0,
	}, nil
}
