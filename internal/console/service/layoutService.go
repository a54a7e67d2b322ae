package service

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/avvvet/nobleco-console/internal/console/avatar"
	"github.com/avvvet/nobleco-console/internal/console/models"
	"github.com/avvvet/nobleco-console/internal/console/session"
	log "github.com/sirupsen/logrus"
)

// HeaderAvatarSize is the header avatar diameter.
const HeaderAvatarSize = 40

const (
	ViewTable = "table"
	ViewCards = "cards"
)

type SidebarItem struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

type SidebarSection struct {
	Key   string        `json:"key"`
	Title string        `json:"title"`
	Open  bool          `json:"open"`
	Items []SidebarItem `json:"items"`
}

var sidebar = []SidebarSection{
	{Key: "dashboard", Title: "Dashboard", Items: []SidebarItem{
		{Path: "/admin", Label: "Dashboard"},
	}},
	{Key: models.SectionUsers, Title: "Users", Items: []SidebarItem{
		{Path: "/admin/admin-users", Label: "Admins & Coworkers"},
		{Path: "/admin/clients", Label: "Clients"},
	}},
	{Key: models.SectionProducts, Title: "Products", Items: []SidebarItem{
		{Path: "/admin/products", Label: "Products"},
		{Path: "/admin/categories", Label: "Categories"},
	}},
	{Key: models.SectionPayment, Title: "Payment", Items: []SidebarItem{
		{Path: "/admin/orders", Label: "Orders"},
		{Path: "/admin/commission", Label: "Commission"},
	}},
}

type Layout struct {
	Collapsed bool             `json:"collapsed"`
	Sections  []SidebarSection `json:"sections"`
	User      *models.User     `json:"user"`
	Avatar    avatar.View      `json:"avatar"`
}

type LayoutService struct {
	avatars *AvatarService
}

func NewLayoutService(avatars *AvatarService) *LayoutService {
	return &LayoutService{avatars: avatars}
}

// SidebarCollapsed is true only for the stored string "true".
func SidebarCollapsed(ctx context.Context, st session.Storage) bool {
	v, ok, err := st.GetItem(ctx, session.KeySidebarCollapsed)
	return err == nil && ok && v == "true"
}

// SectionState returns the open map with every section open unless
// stored otherwise. Unreadable state falls back to all open.
func SectionState(ctx context.Context, st session.Storage) map[string]bool {
	state := make(map[string]bool, len(sidebar))
	for _, s := range sidebar {
		state[s.Key] = true
	}

	raw, ok, err := st.GetItem(ctx, session.KeySidebarSections)
	if err != nil || !ok {
		return state
	}
	stored := map[string]bool{}
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		log.Warnf("ignoring unreadable %s: %s", session.KeySidebarSections, err)
		return state
	}
	for k, v := range stored {
		if _, known := state[k]; known {
			state[k] = v
		}
	}
	return state
}

func (s *LayoutService) Load(ctx context.Context, st session.Storage, user *models.User) (*Layout, error) {
	open := SectionState(ctx, st)
	sections := make([]SidebarSection, len(sidebar))
	for i, sec := range sidebar {
		sec.Open = open[sec.Key]
		sections[i] = sec
	}

	l := &Layout{
		Collapsed: SidebarCollapsed(ctx, st),
		Sections:  sections,
		User:      user,
	}
	if user != nil {
		var av *models.Avatar
		if s.avatars != nil {
			a, err := s.avatars.Get(ctx, user.ID)
			if err != nil {
				log.Warnf("header avatar for user %d: %s", user.ID, err)
			}
			av = a
		}
		l.Avatar = avatar.NewView(user.Name, av, HeaderAvatarSize)
	}
	return l, nil
}

func (s *LayoutService) SetCollapsed(ctx context.Context, st session.Storage, collapsed bool) error {
	return st.SetItem(ctx, session.KeySidebarCollapsed, strconv.FormatBool(collapsed))
}

// ToggleSection flips one section and persists the whole map.
func (s *LayoutService) ToggleSection(ctx context.Context, st session.Storage, key string) (map[string]bool, error) {
	state := SectionState(ctx, st)
	if _, ok := state[key]; !ok {
		return nil, invalid("section", "unknown sidebar section "+strconv.Quote(key))
	}
	state[key] = !state[key]

	raw, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	if err := st.SetItem(ctx, session.KeySidebarSections, string(raw)); err != nil {
		return nil, err
	}
	return state, nil
}

// ViewMode is the remembered table/cards choice for page.
func (s *LayoutService) ViewMode(ctx context.Context, st session.Storage, page string) string {
	v, ok, err := st.GetItem(ctx, session.KeyViewModePrefix+page)
	if err != nil || !ok || (v != ViewTable && v != ViewCards) {
		return ViewTable
	}
	return v
}

func (s *LayoutService) SetViewMode(ctx context.Context, st session.Storage, page, mode string) error {
	if mode != ViewTable && mode != ViewCards {
		return invalid("mode", "view mode must be table or cards")
	}
	return st.SetItem(ctx, session.KeyViewModePrefix+page, mode)
}
