package catalog

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-loja/internal/common"
)

const (
	cacheKeyItems      = "catalog:items"
	cacheKeyCategories = "catalog:categories"
)

// Service serves catalog reads backed by the JSON file with a Redis
// read-through cache in front of it.
type Service struct {
	Store  FileStore
	Cache  *Cache
	Logger zerolog.Logger
}

// List returns the catalog, optionally filtered by category.
func (s *Service) List(ctx context.Context, category string) ([]Item, error) {
	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return items, nil
	}
	filtered := make([]Item, 0, len(items))
	for _, it := range items {
		if strings.EqualFold(it.Category, category) {
			filtered = append(filtered, it)
		}
	}
	return filtered, nil
}

// Get returns the item with the given id.
func (s *Service) Get(ctx context.Context, id int64) (Item, error) {
	items, err := s.load(ctx)
	if err != nil {
		return Item{}, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, common.NewAppError("NOT_FOUND", "produto não encontrado", http.StatusNotFound, nil)
}

// Categories returns the distinct categories in alphabetical order.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	var cached []string
	if found, err := s.Cache.GetJSON(ctx, cacheKeyCategories, &cached); err == nil && found {
		return cached, nil
	}
	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		cat := strings.TrimSpace(it.Category)
		if cat == "" {
			continue
		}
		if _, ok := seen[cat]; ok {
			continue
		}
		seen[cat] = struct{}{}
		out = append(out, cat)
	}
	sort.Strings(out)
	if err := s.Cache.SetJSON(ctx, cacheKeyCategories, out); err != nil {
		s.Logger.Warn().Err(err).Msg("cache categories")
	}
	return out, nil
}

func (s *Service) load(ctx context.Context) ([]Item, error) {
	var cached []Item
	if found, err := s.Cache.GetJSON(ctx, cacheKeyItems, &cached); err == nil && found {
		return cached, nil
	} else if err != nil {
		s.Logger.Warn().Err(err).Msg("catalog cache read")
	}
	items, err := s.Store.ReadAll()
	if err != nil {
		return nil, common.NewAppError("CATALOG_UNAVAILABLE", "catálogo indisponível no momento", http.StatusInternalServerError, err)
	}
	if err := s.Cache.SetJSON(ctx, cacheKeyItems, items); err != nil {
		s.Logger.Warn().Err(err).Msg("catalog cache write")
	}
	return items, nil
}

// ParseID converts a path parameter into a catalog id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewAppError("BAD_REQUEST", "identificador de produto inválido", http.StatusBadRequest, err)
	}
	return id, nil
}
