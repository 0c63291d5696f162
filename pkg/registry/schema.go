// pkg/registry/schema.go
package registry

// Catalog lists the areas and cuisines the concierge can recommend for.
type Catalog struct {
	Version     string   `json:"version"`
	LastUpdated string   `json:"lastUpdated"`
	Locations   []string `json:"locations"`
	Cuisines    []string `json:"cuisines"`
}

// Default mirrors configs/catalog.json and is used when no registry file is configured.
func Default() *Catalog {
	return &Catalog{
		Version:   "1.0.0",
		Locations: []string{"new york", "manhattan"},
		Cuisines:  []string{"korean", "chinese", "coffee", "american", "indian", "japanese"},
	}
}
