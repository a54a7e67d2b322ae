package models

const (
	LevelGuest        = "guest"
	LevelMember       = "member"
	LevelUnitManager  = "unit_manager"
	LevelBrandManager = "brand_manager"
)

// CommissionLevels is the fixed display and submit order.
var CommissionLevels = []string{LevelGuest, LevelMember, LevelUnitManager, LevelBrandManager}

type CommissionRate struct {
	UserLevel      string  `json:"user_level"`
	SelfCommission float64 `json:"self_commission"`
	Level1Down     float64 `json:"level_1_down"`
	Level2Down     float64 `json:"level_2_down"`
}
