// Package audio serves the dashboard's audio library from a YAML catalog.
package audio

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Track is one catalog entry.
type Track struct {
	ID       string   `yaml:"id" json:"id"`
	Title    string   `yaml:"title" json:"title"`
	Artist   string   `yaml:"artist" json:"artist"`
	Category string   `yaml:"category" json:"category"`
	Tags     []string `yaml:"tags" json:"tags"`
	Verified bool     `yaml:"verified" json:"verified"`
	URL      string   `yaml:"url" json:"url"`
	Duration int      `yaml:"duration" json:"duration"` // seconds
}

// HasTag reports whether the track carries tag, ignoring case.
func (t Track) HasTag(tag string) bool {
	for _, tt := range t.Tags {
		if strings.EqualFold(tt, tag) {
			return true
		}
	}
	return false
}

// Catalog is the loaded track list.
type Catalog struct {
	Tracks []Track `yaml:"tracks"`
}

// LoadCatalog reads a YAML catalog. An empty path yields an empty catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return &Catalog{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML catalog and drops entries without an id or url.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse audio catalog: %w", err)
	}

	tracks := c.Tracks[:0]
	for _, t := range c.Tracks {
		if t.ID == "" || t.URL == "" {
			continue
		}
		if t.Tags == nil {
			t.Tags = []string{}
		}
		tracks = append(tracks, t)
	}
	c.Tracks = tracks
	return &c, nil
}

// Filter selects tracks. Category "all" or "" matches every category.
type Filter struct {
	VerifiedOnly bool
	Category     string
	Tag          string
}

// Result is the /api/audio payload. Categories and tags cover the whole catalog.
type Result struct {
	Tracks     []Track  `json:"tracks"`
	Count      int      `json:"count"`
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
}

// Query applies f to the catalog.
func (c *Catalog) Query(f Filter) Result {
	category := strings.TrimSpace(f.Category)
	if strings.EqualFold(category, "all") {
		category = ""
	}
	tag := strings.TrimSpace(f.Tag)

	tracks := make([]Track, 0, len(c.Tracks))
	for _, t := range c.Tracks {
		if f.VerifiedOnly && !t.Verified {
			continue
		}
		if category != "" && !strings.EqualFold(t.Category, category) {
			continue
		}
		if tag != "" && !t.HasTag(tag) {
			continue
		}
		tracks = append(tracks, t)
	}

	return Result{
		Tracks:     tracks,
		Count:      len(tracks),
		Categories: c.categories(),
		Tags:       c.tags(),
	}
}

func (c *Catalog) categories() []string {
	seen := map[string]bool{}
	out := []string{}
	for _, t := range c.Tracks {
		key := strings.ToLower(t.Category)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) tags() []string {
	seen := map[string]bool{}
	out := []string{}
	for _, t := range c.Tracks {
		for _, tag := range t.Tags {
			key := strings.ToLower(tag)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}
