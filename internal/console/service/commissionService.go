package service

import (
	"context"
	"fmt"
	"math"

	"github.com/avvvet/nobleco-console/internal/console/api"
	"github.com/avvvet/nobleco-console/internal/console/models"
)

const (
	RateMin  = 0
	RateMax  = 100
	RateStep = 0.5
)

// ClampRate applies the input widget rules: 0 to 100 in steps of 0.5.
func ClampRate(v float64) float64 {
	if math.IsNaN(v) {
		return RateMin
	}
	v = math.Max(RateMin, math.Min(RateMax, v))
	return math.Round(v/RateStep) * RateStep
}

// SortRates orders rows guest, member, unit_manager, brand_manager. Levels
// the server omits are filled with zero rates so there are always four.
func SortRates(rates []models.CommissionRate) []models.CommissionRate {
	byLevel := make(map[string]models.CommissionRate, len(rates))
	for _, r := range rates {
		byLevel[r.UserLevel] = r
	}
	out := make([]models.CommissionRate, len(models.CommissionLevels))
	for i, lvl := range models.CommissionLevels {
		r, ok := byLevel[lvl]
		if !ok {
			r = models.CommissionRate{UserLevel: lvl}
		}
		out[i] = r
	}
	return out
}

// CommissionEditor buffers edits to all four rows. Cancel restores the last
// loaded snapshot.
type CommissionEditor struct {
	original []models.CommissionRate
	draft    []models.CommissionRate
	editing  bool
}

func NewCommissionEditor(rates []models.CommissionRate) *CommissionEditor {
	sorted := SortRates(rates)
	return &CommissionEditor{
		original: sorted,
		draft:    append([]models.CommissionRate(nil), sorted...),
	}
}

func (e *CommissionEditor) Edit() {
	e.editing = true
}

func (e *CommissionEditor) Editing() bool {
	return e.editing
}

// Set updates one field of a row in the draft. field is one of
// self_commission, level_1_down, level_2_down.
func (e *CommissionEditor) Set(level, field string, v float64) error {
	for i := range e.draft {
		if e.draft[i].UserLevel != level {
			continue
		}
		v = ClampRate(v)
		switch field {
		case "self_commission":
			e.draft[i].SelfCommission = v
		case "level_1_down":
			e.draft[i].Level1Down = v
		case "level_2_down":
			e.draft[i].Level2Down = v
		default:
			return invalid(field, fmt.Sprintf("unknown rate field %q", field))
		}
		e.editing = true
		return nil
	}
	return invalid("user_level", fmt.Sprintf("unknown level %q", level))
}

// Apply replaces the draft with posted rows, clamped and in fixed order.
func (e *CommissionEditor) Apply(rows []models.CommissionRate) error {
	for _, r := range rows {
		for field, v := range map[string]float64{
			"self_commission": r.SelfCommission,
			"level_1_down":    r.Level1Down,
			"level_2_down":    r.Level2Down,
		} {
			if err := e.Set(r.UserLevel, field, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *CommissionEditor) Cancel() {
	e.draft = append([]models.CommissionRate(nil), e.original...)
	e.editing = false
}

func (e *CommissionEditor) Rows() []models.CommissionRate {
	if e.editing {
		return e.draft
	}
	return e.original
}

// Payload is always all four rows.
func (e *CommissionEditor) Payload() []models.CommissionRate {
	return append([]models.CommissionRate(nil), e.draft...)
}

// Commit makes the draft the new snapshot after a successful save.
func (e *CommissionEditor) Commit() {
	e.original = append([]models.CommissionRate(nil), e.draft...)
	e.editing = false
}

type CommissionService struct {
	api   *api.Client
	audit *AuditService
}

func NewCommissionService(client *api.Client, audit *AuditService) *CommissionService {
	return &CommissionService{api: client, audit: audit}
}

func (s *CommissionService) Load(ctx context.Context) (*CommissionEditor, error) {
	rates, err := s.api.ListCommissionRates(ctx)
	if err != nil {
		return nil, err
	}
	return NewCommissionEditor(rates), nil
}

// Save sends one PATCH with all four rows.
func (s *CommissionService) Save(ctx context.Context, actor *models.User, e *CommissionEditor) error {
	payload := e.Payload()
	if err := s.api.UpdateCommissionRates(ctx, payload); err != nil {
		return err
	}
	e.Commit()
	s.audit.Record(ctx, actor, ActionCommissionUpdate, "commission-rates", fmt.Sprintf("%d rows", len(payload)))
	return nil
}

// Update loads the current rates, applies rows and saves them.
func (s *CommissionService) Update(ctx context.Context, actor *models.User, rows []models.CommissionRate) ([]models.CommissionRate, error) {
	e, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	e.Edit()
	if err := e.Apply(rows); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, actor, e); err != nil {
		return nil, err
	}
	return e.Rows(), nil
}
