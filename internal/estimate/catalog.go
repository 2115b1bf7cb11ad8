package estimate

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidCatalog = errors.New("invalid catalog")
	ErrUnknownProduct = errors.New("unknown product")
	ErrUnknownVariant = errors.New("unknown variant")
)

// Variant is one size or finish of a product. Prices are in thousands.
type Variant struct {
	ID          string  `yaml:"id"`
	Label       string  `yaml:"label"`
	MinPrice    float64 `yaml:"min_price"`
	MaxPrice    float64 `yaml:"max_price"`
	Default     bool    `yaml:"default,omitempty"`
	Description string  `yaml:"description,omitempty"`
}

// Product is a catalog entry.
type Product struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Category    string    `yaml:"category"`
	Description string    `yaml:"description,omitempty"`
	Variants    []Variant `yaml:"variants"`
}

// Photo is a gallery picture tagged with the pieces it shows.
type Photo struct {
	ID       string      `yaml:"id"`
	Caption  string      `yaml:"caption"`
	Products []Selection `yaml:"products"`
}

// Catalog is the product list shown on the pricing page.
type Catalog struct {
	Title    string    `yaml:"title"`
	Intro    string    `yaml:"intro,omitempty"`
	Products []Product `yaml:"products"`
	Photos   []Photo   `yaml:"photos,omitempty"`
}

// LoadCatalog reads and validates a YAML catalog.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks ids are unique and every product can be priced.
func (c *Catalog) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(c.Products))
	for _, p := range c.Products {
		switch {
		case p.ID == "":
			errs = append(errs, fmt.Errorf("%w: product %q has no id", ErrInvalidCatalog, p.Name))
			continue
		case seen[p.ID]:
			errs = append(errs, fmt.Errorf("%w: duplicate product %s", ErrInvalidCatalog, p.ID))
		case len(p.Variants) == 0:
			errs = append(errs, fmt.Errorf("%w: product %s has no variants", ErrInvalidCatalog, p.ID))
		}
		seen[p.ID] = true
		for _, v := range p.Variants {
			if v.MinPrice > v.MaxPrice {
				errs = append(errs, fmt.Errorf("%w: %s/%s min price above max", ErrInvalidCatalog, p.ID, v.ID))
			}
		}
	}
	for _, ph := range c.Photos {
		for _, s := range ph.Products {
			if !seen[s.ProductID] {
				errs = append(errs, fmt.Errorf("%w: photo %s: %w %s", ErrInvalidCatalog, ph.ID, ErrUnknownProduct, s.ProductID))
			}
		}
	}
	return errors.Join(errs...)
}

// Product returns the product with id.
func (c *Catalog) Product(id string) (*Product, error) {
	for i := range c.Products {
		if c.Products[i].ID == id {
			return &c.Products[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, id)
}

// Photo returns the photo with id.
func (c *Catalog) Photo(id string) (*Photo, bool) {
	for i := range c.Photos {
		if c.Photos[i].ID == id {
			return &c.Photos[i], true
		}
	}
	return nil, false
}

// Categories returns category names in first-seen order.
func (c *Catalog) Categories() []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range c.Products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// Variant returns the variant with id.
func (p *Product) Variant(id string) (*Variant, error) {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrUnknownVariant, p.ID, id)
}

// DefaultVariant is the variant marked default, or the first one.
func (p *Product) DefaultVariant() *Variant {
	for i := range p.Variants {
		if p.Variants[i].Default {
			return &p.Variants[i]
		}
	}
	if len(p.Variants) == 0 {
		return nil
	}
	return &p.Variants[0]
}
