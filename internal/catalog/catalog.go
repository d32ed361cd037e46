// Package catalog holds the static location and service reference data used to route applications.
// Lookups never fail: unknown keys yield empty results.
package catalog

import (
	"fmt"

	"nagarik-sewa/internal/models"
)

// ServiceEntry describes where a service type is processed.
type ServiceEntry struct {
	Type        string             `json:"type"`
	Level       models.OfficeLevel `json:"level"`
	OfficeName  string             `json:"office_name"`
	Description string             `json:"description"`
	NeedsWard   bool               `json:"needs_ward"`
}

// Stage is one step of the citizen-facing processing flow.
type Stage struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Office      string `json:"office"`
}

type ProvinceEntry struct {
	Name      string   `json:"name"`
	Districts []string `json:"districts"`
}

// Definition is the serializable form of a catalog.
type Definition struct {
	Version       string              `json:"version"`
	Provinces     []ProvinceEntry     `json:"provinces"`
	Cities        map[string][]string `json:"cities"`
	Wards         map[string][]string `json:"wards"`
	LiveCities    []string            `json:"live_cities"`
	Services      []ServiceEntry      `json:"services"`
	DefaultStages []Stage             `json:"default_stages"`
	Stages        map[string][]Stage  `json:"stages"`
}

type Catalog struct {
	def       Definition
	districts map[string][]string
	services  map[string]ServiceEntry
	live      map[string]bool
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(BuiltinDefinition())
	if err != nil {
		panic(fmt.Sprintf("builtin catalog is invalid: %v", err))
	}
	return c
}

// New indexes def. Services must have a type, a known level and an office name.
func New(def Definition) (*Catalog, error) {
	c := &Catalog{
		def:       def,
		districts: make(map[string][]string, len(def.Provinces)),
		services:  make(map[string]ServiceEntry, len(def.Services)),
		live:      make(map[string]bool, len(def.LiveCities)),
	}

	for _, p := range def.Provinces {
		c.districts[p.Name] = p.Districts
	}
	for _, s := range def.Services {
		if s.Type == "" || s.OfficeName == "" {
			return nil, fmt.Errorf("service entry %q: type and office_name are required", s.Type)
		}
		if !s.Level.IsValid() {
			return nil, fmt.Errorf("service entry %q: unknown office level %q", s.Type, s.Level)
		}
		if _, dup := c.services[s.Type]; dup {
			return nil, fmt.Errorf("service entry %q: duplicate", s.Type)
		}
		c.services[s.Type] = s
	}
	if len(def.DefaultStages) == 0 {
		return nil, fmt.Errorf("default_stages must not be empty")
	}
	for _, city := range def.LiveCities {
		c.live[city] = true
	}
	return c, nil
}

func (c *Catalog) Version() string {
	return c.def.Version
}

// Definition returns a copy of the underlying definition.
func (c *Catalog) Definition() Definition {
	return c.def
}

func (c *Catalog) Provinces() []string {
	out := make([]string, 0, len(c.def.Provinces))
	for _, p := range c.def.Provinces {
		out = append(out, p.Name)
	}
	return out
}

func (c *Catalog) Districts(province string) []string {
	return clone(c.districts[province])
}

func (c *Catalog) Cities(district string) []string {
	return clone(c.def.Cities[district])
}

func (c *Catalog) Wards(city string) []string {
	return clone(c.def.Wards[city])
}

// IsServiceAvailable reports whether applications can be submitted for city yet.
func (c *Catalog) IsServiceAvailable(city string) bool {
	return c.live[city]
}

func (c *Catalog) Service(serviceType string) (ServiceEntry, bool) {
	s, ok := c.services[serviceType]
	return s, ok
}

// Services lists every service in definition order.
func (c *Catalog) Services() []ServiceEntry {
	return append([]ServiceEntry(nil), c.def.Services...)
}

// Stages returns the processing flow for serviceType, falling back to the default flow.
func (c *Catalog) Stages(serviceType string) []Stage {
	if stages, ok := c.def.Stages[serviceType]; ok && len(stages) > 0 {
		return append([]Stage(nil), stages...)
	}
	return append([]Stage(nil), c.def.DefaultStages...)
}

func clone(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	return append([]string(nil), in...)
}
