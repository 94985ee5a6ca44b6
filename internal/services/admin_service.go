package services

import (
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"cartify/internal/domain"
	"cartify/internal/gateway"
	applog "cartify/internal/log"
	"cartify/internal/repos"
)

// DefaultCategories is the storefront taxonomy used when neither the remote
// API nor the cache has a category list.
var DefaultCategories = []string{
	"Electronics", "Fashion", "Home & Garden", "Groceries", "Books",
	"Beauty & Personal Care", "Sports & Outdoors", "Toys & Games",
}

// CategoryIndex is the category lookup the admin console mutates.
type CategoryIndex interface {
	All() []domain.Category
	Invalidate()
}

// AdminService holds partner applications and manages the category taxonomy.
type AdminService struct {
	Apps  ApplicationAPI
	Cats  CategoryAPI
	Index CategoryIndex
	Cache Cache

	notifier

	mu   sync.RWMutex
	apps []domain.Application
}

func NewAdminService(apps ApplicationAPI, cats CategoryAPI, idx CategoryIndex, cache Cache) *AdminService {
	return &AdminService{Apps: apps, Cats: cats, Index: idx, Cache: cache}
}

// LoadCached fills the application list from the cache.
func (s *AdminService) LoadCached() error {
	var apps []domain.Application
	ok, err := s.Cache.Load(repos.KeyApplications, &apps)
	if err != nil {
		return errors.Wrap(err, "load cached applications")
	}
	if !ok {
		return nil
	}
	s.mu.Lock()
	s.apps = apps
	s.mu.Unlock()
	s.publish(Event{Topic: "applications", Kind: "load"})
	return nil
}

// Submit sends a partner application. New applications are always pending.
func (s *AdminService) Submit(a domain.Application) (domain.Application, error) {
	rec, err := s.Apps.SubmitApplication(gateway.ApplicationPayload{
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		Role:      a.Role,
		Details:   a.Details,
		ExtraInfo: a.ExtraInfo,
	})
	if err != nil {
		return domain.Application{}, errors.Wrap(err, "submit application")
	}
	out := applicationFromRecord(rec)
	out.Status = domain.StatusPending

	s.mu.Lock()
	s.apps = append([]domain.Application{out}, s.apps...)
	s.mu.Unlock()
	s.save()
	applog.Audit(nil, "application.submit", map[string]any{"id": out.ID, "role": out.Role})
	s.publish(Event{Topic: "applications", Kind: "submit", ID: out.ID})
	return out, nil
}

// Refresh reloads applications, optionally filtered by status. When the
// remote list is unavailable the cached list is kept and the error returned.
func (s *AdminService) Refresh(status string) error {
	recs, err := s.Apps.ListApplications(status)
	if err != nil {
		applog.Error(nil, "applications.refresh", err, map[string]any{"status": status})
		if cerr := s.LoadCached(); cerr != nil {
			applog.Error(nil, "applications.cache.load", cerr, nil)
		}
		return errors.Wrap(err, "list applications")
	}
	apps := make([]domain.Application, 0, len(recs))
	for _, r := range recs {
		apps = append(apps, applicationFromRecord(r))
	}
	s.mu.Lock()
	s.apps = apps
	s.mu.Unlock()
	// A filtered list is not a full mirror.
	if status == "" {
		s.save()
	}
	s.publish(Event{Topic: "applications", Kind: "refresh"})
	return nil
}

// Applications returns the loaded applications.
func (s *AdminService) Applications() []domain.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Application, len(s.apps))
	copy(out, s.apps)
	return out
}

// SetStatus approves or rejects a pending application.
func (s *AdminService) SetStatus(id string, next domain.ApplicationStatus) (domain.Application, error) {
	s.mu.RLock()
	var cur *domain.Application
	for i := range s.apps {
		if s.apps[i].ID == id {
			a := s.apps[i]
			cur = &a
			break
		}
	}
	s.mu.RUnlock()
	if cur == nil {
		return domain.Application{}, ErrNotFound
	}
	if !cur.CanBecome(next) {
		return domain.Application{}, errors.Wrapf(ErrInvalidTransition, "%s to %s", cur.Status, next)
	}

	if _, err := s.Apps.SetApplicationStatus(id, string(next)); err != nil {
		return domain.Application{}, errors.Wrapf(err, "set application %s status", id)
	}

	s.mu.Lock()
	for i := range s.apps {
		if s.apps[i].ID == id {
			s.apps[i].Status = next
			cur = &s.apps[i]
		}
	}
	out := *cur
	s.mu.Unlock()
	s.save()
	applog.Audit(nil, "application.status", map[string]any{"id": id, "status": string(next)})
	s.publish(Event{Topic: "applications", Kind: "status", ID: id})
	return out, nil
}

func (s *AdminService) PendingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.apps {
		if a.Status == domain.StatusPending {
			n++
		}
	}
	return n
}

func (s *AdminService) save() {
	s.mu.RLock()
	apps := make([]domain.Application, len(s.apps))
	copy(apps, s.apps)
	s.mu.RUnlock()
	if err := s.Cache.Save(repos.KeyApplications, apps); err != nil {
		applog.Error(nil, "applications.cache.save", err, nil)
	}
}

// Categories lists the category names, falling back to the cached list and
// then to DefaultCategories.
func (s *AdminService) Categories() []string {
	all := s.Index.All()
	if len(all) > 0 {
		names := make([]string, 0, len(all))
		for _, c := range all {
			names = append(names, c.Name)
		}
		if err := s.Cache.Save(repos.KeyCategories, names); err != nil {
			applog.Error(nil, "categories.cache.save", err, nil)
		}
		return names
	}
	var names []string
	if ok, err := s.Cache.Load(repos.KeyCategories, &names); err == nil && ok && len(names) > 0 {
		return names
	}
	out := make([]string, len(DefaultCategories))
	copy(out, DefaultCategories)
	return out
}

// AddCategory creates a category. Existing names are left alone.
func (s *AdminService) AddCategory(name string) error {
	name = strings.TrimSpace(name)
	for _, c := range s.Index.All() {
		if c.Name == name {
			return nil
		}
	}
	if _, err := s.Cats.AddCategory(name); err != nil {
		return errors.Wrapf(err, "add category %q", name)
	}
	s.Index.Invalidate()
	applog.Audit(nil, "category.add", map[string]any{"name": name})
	s.publish(Event{Topic: "categories", Kind: "add", ID: name})
	return nil
}

// RemoveCategory deletes the category with name. Unknown names are ignored.
func (s *AdminService) RemoveCategory(name string) error {
	id, found := 0, false
	for _, c := range s.Index.All() {
		if c.Name == name {
			id, found = c.ID, true
			break
		}
	}
	if !found {
		return nil
	}
	if err := s.Cats.RemoveCategory(id); err != nil {
		return errors.Wrapf(err, "remove category %q", name)
	}
	s.Index.Invalidate()
	applog.Audit(nil, "category.remove", map[string]any{"name": name, "id": id})
	s.publish(Event{Topic: "categories", Kind: "remove", ID: name})
	return nil
}

func applicationFromRecord(r gateway.ApplicationRecord) domain.Application {
	return domain.Application{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Role:      r.Role,
		Details:   r.Details,
		ExtraInfo: r.ExtraInfo,
		Status:    domain.ApplicationStatus(r.Status),
		Date:      parseDate(r.Date),
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseDate accepts the timestamp formats the backend emits; unknown formats
// yield the zero time.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
