package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/avvvet/nobleco-console/internal/console/api"
	"github.com/avvvet/nobleco-console/internal/console/format"
	"github.com/avvvet/nobleco-console/internal/console/models"
)

type ClientRow struct {
	models.Client
	CreatedDisplay string `json:"created_display"`
}

type ClientService struct {
	api   *api.Client
	audit *AuditService
}

func NewClientService(client *api.Client, audit *AuditService) *ClientService {
	return &ClientService{api: client, audit: audit}
}

// FilterClients matches q case-insensitively against name, phone, email
// and location. A blank query keeps every client.
func FilterClients(clients []models.Client, q string) []models.Client {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return clients
	}
	out := make([]models.Client, 0, len(clients))
	for _, c := range clients {
		for _, field := range []string{c.Name, c.Phone, c.Email, c.Location} {
			if strings.Contains(strings.ToLower(field), q) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func ValidateClient(c models.Client) error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid("name", "Client name is required")
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return invalid("email", "Please enter a valid email address")
	}
	return nil
}

func (s *ClientService) List(ctx context.Context, q string) ([]ClientRow, error) {
	clients, err := s.api.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	filtered := FilterClients(clients, q)
	rows := make([]ClientRow, len(filtered))
	for i, c := range filtered {
		rows[i] = ClientRow{Client: c, CreatedDisplay: format.Date(c.CreatedAt)}
	}
	return rows, nil
}

func (s *ClientService) Get(ctx context.Context, id int64) (*ClientRow, error) {
	c, err := s.api.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ClientRow{Client: *c, CreatedDisplay: format.Date(c.CreatedAt)}, nil
}

func (s *ClientService) Clients(ctx context.Context) ([]models.Client, error) {
	return s.api.ListClients(ctx)
}

func (s *ClientService) Create(ctx context.Context, actor *models.User, c models.Client) (*models.Client, error) {
	if err := ValidateClient(c); err != nil {
		return nil, err
	}
	created, err := s.api.CreateClient(ctx, c)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, ActionClientCreate, "client:"+strconv.FormatInt(created.ID, 10), created.Name)
	return created, nil
}

func (s *ClientService) Update(ctx context.Context, actor *models.User, c models.Client) (*models.Client, error) {
	if err := ValidateClient(c); err != nil {
		return nil, err
	}
	updated, err := s.api.UpdateClient(ctx, c)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, ActionClientUpdate, "client:"+strconv.FormatInt(c.ID, 10), c.Name)
	return updated, nil
}

func (s *ClientService) Delete(ctx context.Context, actor *models.User, id int64, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if err := s.api.DeleteClient(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, ActionClientDelete, "client:"+strconv.FormatInt(id, 10), "")
	return nil
}
