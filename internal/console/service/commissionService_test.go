package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/avvvet/nobleco-console/internal/console/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var serverRates = []models.CommissionRate{
	{UserLevel: models.LevelBrandManager, SelfCommission: 20, Level1Down: 8, Level2Down: 4},
	{UserLevel: models.LevelGuest, SelfCommission: 5, Level1Down: 0, Level2Down: 0},
	{UserLevel: models.LevelUnitManager, SelfCommission: 15, Level1Down: 5, Level2Down: 2.5},
	{UserLevel: models.LevelMember, SelfCommission: 10, Level1Down: 3, Level2Down: 1},
}

func TestSortRatesFixedOrder(t *testing.T) {
	sorted := SortRates(serverRates)
	require.Len(t, sorted, 4)
	for i, lvl := range models.CommissionLevels {
		assert.Equal(t, lvl, sorted[i].UserLevel)
	}

	partial := SortRates(serverRates[:1])
	require.Len(t, partial, 4)
	assert.Equal(t, float64(20), partial[3].SelfCommission)
	assert.Zero(t, partial[0].SelfCommission)
}

func TestClampRate(t *testing.T) {
	assert.Equal(t, 0.0, ClampRate(-3))
	assert.Equal(t, 100.0, ClampRate(140))
	assert.Equal(t, 12.5, ClampRate(12.4))
	assert.Equal(t, 12.0, ClampRate(12.2))
}

func TestCommissionCancelRestoresSnapshot(t *testing.T) {
	e := NewCommissionEditor(serverRates)
	before := append([]models.CommissionRate(nil), e.Rows()...)

	e.Edit()
	require.NoError(t, e.Set(models.LevelGuest, "self_commission", 42))
	require.NoError(t, e.Set(models.LevelMember, "level_2_down", 7.5))
	assert.Equal(t, 42.0, e.Rows()[0].SelfCommission)

	e.Cancel()
	assert.False(t, e.Editing())
	assert.Equal(t, before, e.Rows())
	assert.Equal(t, before, e.Payload())
}

func TestCommissionSetRejectsUnknown(t *testing.T) {
	e := NewCommissionEditor(serverRates)
	assert.Error(t, e.Set("vip", "self_commission", 1))
	assert.Error(t, e.Set(models.LevelGuest, "bonus", 1))
}

func TestCommissionSaveSendsOnePatchWithFourRows(t *testing.T) {
	up := newUpstream(t)
	up.handle("GET /api/commission-rates", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, serverRates)
	})
	up.handle("PATCH /api/commission-rates", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "saved"})
	})
	svc := NewCommissionService(up.client(), nil)

	rows, err := svc.Update(context.Background(), nil, []models.CommissionRate{
		{UserLevel: models.LevelMember, SelfCommission: 11, Level1Down: 3, Level2Down: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 11.0, rows[1].SelfCommission)
	assert.Equal(t, 1, up.count(http.MethodPatch, "/api/commission-rates"))

	var body struct {
		Rates []map[string]any `json:"rates"`
	}
	require.NoError(t, json.Unmarshal(up.last(http.MethodPatch, "/api/commission-rates").Body, &body))
	require.Len(t, body.Rates, 4)
	for i, r := range body.Rates {
		assert.Len(t, r, 4)
		assert.Equal(t, models.CommissionLevels[i], r["user_level"])
		assert.Contains(t, r, "self_commission")
		assert.Contains(t, r, "level_1_down")
		assert.Contains(t, r, "level_2_down")
	}
}

func TestCommissionSaveFailureKeepsDraft(t *testing.T) {
	up := newUpstream(t)
	up.handle("PATCH /api/commission-rates", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid rates"})
	})
	svc := NewCommissionService(up.client(), nil)

	e := NewCommissionEditor(serverRates)
	e.Edit()
	require.NoError(t, e.Set(models.LevelGuest, "self_commission", 9))

	err := svc.Save(context.Background(), nil, e)
	require.Error(t, err)
	assert.True(t, e.Editing())
	assert.Equal(t, 9.0, e.Rows()[0].SelfCommission)
}
