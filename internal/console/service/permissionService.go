package service

import (
	"context"
	"sort"
	"strconv"

	"github.com/avvvet/nobleco-console/internal/console/api"
	"github.com/avvvet/nobleco-console/internal/console/models"
	"golang.org/x/sync/errgroup"
)

var sectionOrder = []string{
	models.SectionDashboard,
	models.SectionUsers,
	models.SectionProducts,
	models.SectionPayment,
}

var sectionTitles = map[string]string{
	models.SectionDashboard: "Dashboard",
	models.SectionUsers:     "Users",
	models.SectionProducts:  "Products",
	models.SectionPayment:   "Payment",
}

type PageOption struct {
	PagePath string `json:"page_path"`
	PageName string `json:"page_name"`
	Granted  bool   `json:"granted"`
}

type PermissionSection struct {
	Section string       `json:"section"`
	Title   string       `json:"title"`
	Pages   []PageOption `json:"pages"`
}

// PermissionEditor is the permission modal state: the page catalog and the
// granted set of page paths. Toggling only mutates the local set.
type PermissionEditor struct {
	CoworkerID int64
	catalog    []models.CoworkerPermission
	granted    map[string]bool
}

func NewPermissionEditor(coworkerID int64, catalog, current []models.CoworkerPermission) *PermissionEditor {
	e := &PermissionEditor{
		CoworkerID: coworkerID,
		catalog:    catalog,
		granted:    make(map[string]bool, len(current)),
	}
	for _, p := range current {
		e.granted[p.PagePath] = true
	}
	return e
}

func (e *PermissionEditor) Granted(path string) bool {
	return e.granted[path]
}

// Toggle flips path and returns the new state.
func (e *PermissionEditor) Toggle(path string) bool {
	e.Set(path, !e.granted[path])
	return e.granted[path]
}

func (e *PermissionEditor) Set(path string, on bool) {
	if on {
		e.granted[path] = true
	} else {
		delete(e.granted, path)
	}
}

// Replace sets the granted set to exactly paths.
func (e *PermissionEditor) Replace(paths []string) {
	e.granted = make(map[string]bool, len(paths))
	for _, p := range paths {
		e.granted[p] = true
	}
}

// Sections groups the catalog: dashboard, users, products, payment, then
// any other section alphabetically.
func (e *PermissionEditor) Sections() []PermissionSection {
	bySection := map[string][]PageOption{}
	for _, p := range e.catalog {
		sec := p.SectionName()
		bySection[sec] = append(bySection[sec], PageOption{
			PagePath: p.PagePath,
			PageName: p.PageName,
			Granted:  e.granted[p.PagePath],
		})
	}

	var extra []string
	for sec := range bySection {
		if _, known := sectionTitles[sec]; !known {
			extra = append(extra, sec)
		}
	}
	sort.Strings(extra)

	var out []PermissionSection
	for _, sec := range append(append([]string{}, sectionOrder...), extra...) {
		pages, ok := bySection[sec]
		if !ok {
			continue
		}
		title, known := sectionTitles[sec]
		if !known {
			title = sec
		}
		out = append(out, PermissionSection{Section: sec, Title: title, Pages: pages})
	}
	return out
}

// Payload is the full replacement list in catalog order. Granted paths
// missing from the catalog are dropped.
func (e *PermissionEditor) Payload() []models.PagePermission {
	out := []models.PagePermission{}
	seen := map[string]bool{}
	for _, p := range e.catalog {
		if !e.granted[p.PagePath] || seen[p.PagePath] {
			continue
		}
		seen[p.PagePath] = true
		out = append(out, models.PagePermission{PagePath: p.PagePath, PageName: p.PageName})
	}
	return out
}

type PermissionService struct {
	api   *api.Client
	audit *AuditService
}

func NewPermissionService(client *api.Client, audit *AuditService) *PermissionService {
	return &PermissionService{api: client, audit: audit}
}

// Load fetches the catalog and the coworker's current set concurrently.
func (s *PermissionService) Load(ctx context.Context, coworkerID int64) (*PermissionEditor, error) {
	var catalog, current []models.CoworkerPermission

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		catalog, err = s.api.AvailablePages(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		current, err = s.api.CoworkerPermissions(gctx, coworkerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewPermissionEditor(coworkerID, catalog, current), nil
}

// Save replaces the coworker's permissions with the granted paths.
func (s *PermissionService) Save(ctx context.Context, actor *models.User, coworkerID int64, paths []string) (*PermissionEditor, error) {
	e, err := s.Load(ctx, coworkerID)
	if err != nil {
		return nil, err
	}
	e.Replace(paths)

	payload := e.Payload()
	if err := s.api.ReplacePermissions(ctx, coworkerID, payload); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, ActionPermissions, "coworker:"+strconv.FormatInt(coworkerID, 10), strconv.Itoa(len(payload))+" pages")
	return e, nil
}
