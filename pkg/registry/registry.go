// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrEmptyCatalog = errors.New("catalog must list at least one location and one cuisine")

func LoadRegistry(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Resolve picks the catalog source: inline lists, then the registry file, then Default.
func Resolve(path string, locations, cuisines []string) (*Catalog, error) {
	cat := Default()
	if path != "" {
		loaded, err := LoadRegistry(path)
		if err != nil {
			return nil, err
		}
		cat = loaded
	}
	if len(locations) > 0 {
		cat.Locations = locations
	}
	if len(cuisines) > 0 {
		cat.Cuisines = cuisines
	}
	return cat, cat.Validate()
}

func (c *Catalog) Validate() error {
	if len(c.Locations) == 0 || len(c.Cuisines) == 0 {
		return ErrEmptyCatalog
	}
	return nil
}

// HasLocation reports a case-insensitive match against the supported areas.
func (c *Catalog) HasLocation(location string) bool {
	return containsFold(c.Locations, location)
}

// HasCuisine reports a case-insensitive match against the supported cuisines.
func (c *Catalog) HasCuisine(cuisine string) bool {
	return containsFold(c.Cuisines, cuisine)
}

func containsFold(list []string, v string) bool {
	v = strings.TrimSpace(v)
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

const (
	KindLocation = "location"
	KindCuisine  = "cuisine"
)

func (c *Catalog) list(kind string) (*[]string, error) {
	switch kind {
	case KindLocation:
		return &c.Locations, nil
	case KindCuisine:
		return &c.Cuisines, nil
	}
	return nil, fmt.Errorf("unknown catalog kind: %s", kind)
}

// Add appends a lower-cased entry. Adding an existing entry is an error.
func (c *Catalog) Add(kind, value string) error {
	list, err := c.list(kind)
	if err != nil {
		return err
	}
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return fmt.Errorf("empty %s", kind)
	}
	if containsFold(*list, value) {
		return fmt.Errorf("%s %q already listed", kind, value)
	}
	*list = append(*list, value)
	return nil
}

func (c *Catalog) Remove(kind, value string) error {
	list, err := c.list(kind)
	if err != nil {
		return err
	}
	for i, item := range *list {
		if strings.EqualFold(item, strings.TrimSpace(value)) {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%s %q not listed", kind, value)
}

// SaveRegistry writes the catalog as indented JSON, creating the directory if needed.
func SaveRegistry(c *Catalog, path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	return nil
}
