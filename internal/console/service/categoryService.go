package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/avvvet/nobleco-console/internal/console/api"
	"github.com/avvvet/nobleco-console/internal/console/models"
)

type CategoryService struct {
	api   *api.Client
	audit *AuditService
}

func NewCategoryService(client *api.Client, audit *AuditService) *CategoryService {
	return &CategoryService{api: client, audit: audit}
}

func (s *CategoryService) List(ctx context.Context, q string) ([]models.Category, error) {
	categories, err := s.api.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return categories, nil
	}
	out := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Description), q) {
			out = append(out, c)
		}
	}
	return out, nil
}

func validateCategory(c models.Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid("name", "Category name is required")
	}
	if c.ParentID != nil && *c.ParentID == c.ID && c.ID != 0 {
		return invalid("parent_id", "A category cannot be its own parent")
	}
	return nil
}

func (s *CategoryService) Create(ctx context.Context, actor *models.User, c models.Category) (*models.Category, error) {
	if err := validateCategory(c); err != nil {
		return nil, err
	}
	created, err := s.api.CreateCategory(ctx, c)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, ActionCategoryCreate, "category:"+strconv.FormatInt(created.ID, 10), created.Name)
	return created, nil
}

func (s *CategoryService) Update(ctx context.Context, actor *models.User, c models.Category) (*models.Category, error) {
	if err := validateCategory(c); err != nil {
		return nil, err
	}
	updated, err := s.api.UpdateCategory(ctx, c)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, ActionCategoryUpdate, "category:"+strconv.FormatInt(c.ID, 10), c.Name)
	return updated, nil
}

func (s *CategoryService) Delete(ctx context.Context, actor *models.User, id int64, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if err := s.api.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, ActionCategoryDelete, "category:"+strconv.FormatInt(id, 10), "")
	return nil
}
