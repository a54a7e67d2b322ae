package models

// Sidebar/permission sections. An empty section is the dashboard level.
const (
	SectionDashboard = ""
	SectionUsers     = "users"
	SectionProducts  = "products"
	SectionPayment   = "payment"
)

type CoworkerPermission struct {
	CoworkerID int64   `json:"coworker_id,omitempty"`
	PagePath   string  `json:"page_path"`
	PageName   string  `json:"page_name"`
	Section    *string `json:"section"`
}

// SectionName flattens the nullable section tag.
func (p CoworkerPermission) SectionName() string {
	if p.Section == nil {
		return SectionDashboard
	}
	return *p.Section
}

// PagePermission is one entry of the wholesale permission PUT.
type PagePermission struct {
	PagePath string `json:"page_path"`
	PageName string `json:"page_name"`
}
