package services

import (
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"cartify/internal/domain"
	applog "cartify/internal/log"
	"cartify/internal/repos"
)

// CategoryService is a read-through id -> name cache over the remote category
// list. A failed load falls back to the last persisted map.
type CategoryService struct {
	API   CategoryAPI
	Cache Cache

	notifier

	mu     sync.RWMutex
	loaded bool
	list   []domain.Category
}

func NewCategoryService(api CategoryAPI, cache Cache) *CategoryService {
	return &CategoryService{API: api, Cache: cache}
}

// Load fetches the category list. When the remote list is unavailable the
// persisted map is used instead and the remote error is returned.
func (s *CategoryService) Load() error {
	recs, err := s.API.ListCategories()
	if err != nil {
		applog.Error(nil, "categories.load", err, nil)
		cached := s.fromCache()
		s.mu.Lock()
		s.list = cached
		s.loaded = true
		s.mu.Unlock()
		s.publish(Event{Topic: "categories", Kind: "load"})
		return errors.Wrap(err, "load categories")
	}

	list := make([]domain.Category, 0, len(recs))
	byID := make(map[int]string, len(recs))
	for _, r := range recs {
		list = append(list, domain.Category{ID: r.ID, Name: r.Name})
		byID[r.ID] = r.Name
	}
	s.mu.Lock()
	s.list = list
	s.loaded = true
	s.mu.Unlock()

	if s.Cache != nil {
		if err := s.Cache.Save(repos.KeyCategoryMap, byID); err != nil {
			applog.Error(nil, "categories.cache.save", err, nil)
		}
	}
	applog.Info(nil, "categories.load", map[string]any{"count": len(list)})
	s.publish(Event{Topic: "categories", Kind: "load"})
	return nil
}

func (s *CategoryService) fromCache() []domain.Category {
	if s.Cache == nil {
		return nil
	}
	var byID map[int]string
	ok, err := s.Cache.Load(repos.KeyCategoryMap, &byID)
	if err != nil {
		applog.Error(nil, "categories.cache.load", err, nil)
		return nil
	}
	if !ok {
		return nil
	}
	list := make([]domain.Category, 0, len(byID))
	for id, name := range byID {
		list = append(list, domain.Category{ID: id, Name: name})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// ensure loads the list once after construction or invalidation.
func (s *CategoryService) ensure() {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if !loaded {
		_ = s.Load()
	}
}

// Invalidate drops the loaded list; the next lookup reloads it.
func (s *CategoryService) Invalidate() {
	s.mu.Lock()
	s.loaded = false
	s.list = nil
	s.mu.Unlock()
	s.publish(Event{Topic: "categories", Kind: "invalidate"})
}

// Name resolves a category id to its label.
func (s *CategoryService) Name(id int) (string, bool) {
	s.ensure()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.list {
		if c.ID == id {
			return c.Name, true
		}
	}
	return "", false
}

// ID resolves a label to its category id.
func (s *CategoryService) ID(name string) (int, bool) {
	s.ensure()
	name = strings.TrimSpace(name)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.list {
		if c.Name == name {
			return c.ID, true
		}
	}
	return 0, false
}

// All returns the loaded categories in remote order.
func (s *CategoryService) All() []domain.Category {
	s.ensure()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Category, len(s.list))
	copy(out, s.list)
	return out
}

