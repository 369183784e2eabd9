package service

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/forgo/wellness/api/internal/model"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var catalogKeyPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// Catalog is the seedable set of lifestyles and activities
type Catalog struct {
	Lifestyles []model.Lifestyle `yaml:"lifestyles"`
	Activities []CatalogActivity `yaml:"activities"`
}

// CatalogActivity is one activity in a catalog file. Key becomes the record
// key so reseeding updates rather than duplicates.
type CatalogActivity struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	BaseTime    int    `yaml:"base_time"`
	BaseXP      int    `yaml:"base_xp"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
	Lifestyles  []int  `yaml:"lifestyles"`
}

// CatalogRepository writes catalog entries
type CatalogRepository interface {
	UpsertLifestyle(ctx context.Context, l model.Lifestyle) error
	Upsert(ctx context.Context, key string, a *model.Activity) error
}

// SeedResult contains the results of a seeding operation
type SeedResult struct {
	Lifestyles int      `json:"lifestyles"`
	Created    int      `json:"created"`
	IDs        []string `json:"ids"`
	Duration   int64    `json:"duration_ms"`
}

// SeederService loads catalogs into storage
type SeederService struct {
	repo CatalogRepository
}

// NewSeederService creates a new seeder service
func NewSeederService(repo CatalogRepository) *SeederService {
	return &SeederService{repo: repo}
}

// DefaultCatalog returns the built-in catalog
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(bytes.NewReader(defaultCatalog))
}

// LoadCatalog parses and validates a YAML catalog. Unknown fields are
// rejected.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog is empty")
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks every entry and returns all problems joined
func (c *Catalog) Validate() error {
	var errs []error

	for _, l := range c.Lifestyles {
		if !model.IsKnownLifestyle(l.ID) {
			errs = append(errs, fmt.Errorf("lifestyle %d: unknown category", l.ID))
		}
		if l.Name == "" {
			errs = append(errs, fmt.Errorf("lifestyle %d: name is required", l.ID))
		}
	}

	keys := make(map[string]bool, len(c.Activities))
	for i, a := range c.Activities {
		where := fmt.Sprintf("activity %d (%s)", i, a.Key)
		if !catalogKeyPattern.MatchString(a.Key) {
			errs = append(errs, fmt.Errorf("%s: key must match %s", where, catalogKeyPattern))
		}
		if keys[a.Key] {
			errs = append(errs, fmt.Errorf("%s: duplicate key", where))
		}
		keys[a.Key] = true
		if a.Name == "" {
			errs = append(errs, fmt.Errorf("%s: name is required", where))
		}
		if a.BaseXP <= 0 {
			errs = append(errs, fmt.Errorf("%s: base_xp must be positive", where))
		}
		if a.BaseTime < 0 {
			errs = append(errs, fmt.Errorf("%s: base_time cannot be negative", where))
		}
		if !model.ActivityType(a.Type).IsValid() {
			errs = append(errs, fmt.Errorf("%s: type must be INDOOR or OUTDOOR", where))
		}
		if len(a.Lifestyles) == 0 {
			errs = append(errs, fmt.Errorf("%s: at least one lifestyle is required", where))
		}
		for _, id := range a.Lifestyles {
			if !model.IsKnownLifestyle(id) {
				errs = append(errs, fmt.Errorf("%s: unknown lifestyle %d", where, id))
			}
		}
	}

	return errors.Join(errs...)
}

// Seed writes every lifestyle and activity. Existing entries with the same
// key are overwritten.
func (s *SeederService) Seed(ctx context.Context, c *Catalog) (*SeedResult, error) {
	start := time.Now()
	result := &SeedResult{IDs: make([]string, 0, len(c.Activities))}

	for _, l := range c.Lifestyles {
		if err := s.repo.UpsertLifestyle(ctx, l); err != nil {
			return result, fmt.Errorf("seed lifestyle %d: %w", l.ID, err)
		}
		result.Lifestyles++
	}

	for _, entry := range c.Activities {
		activity := &model.Activity{
			Name:         entry.Name,
			BaseTime:     entry.BaseTime,
			BaseXP:       entry.BaseXP,
			ActivityType: model.ActivityType(entry.Type),
			Description:  entry.Description,
			LifestyleIDs: entry.Lifestyles,
		}
		if err := s.repo.Upsert(ctx, entry.Key, activity); err != nil {
			return result, fmt.Errorf("seed activity %s: %w", entry.Key, err)
		}
		result.Created++
		result.IDs = append(result.IDs, activity.ID)
	}

	result.Duration = time.Since(start).Milliseconds()
	return result, nil
}
