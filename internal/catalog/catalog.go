package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrProductNotFound marks lookups for products the catalog does not carry.
var ErrProductNotFound = errors.New("product not found")

// Product is one catalog entry. Prices are decimals so filters and any
// derived totals never drift through float rounding.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Stock       int             `json:"stock"`
}

// rawProduct is the on-disk YAML seed shape. Price is a string so the
// decimal parse stays explicit.
type rawProduct struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Price       string `yaml:"price"`
	ImageURL    string `yaml:"image_url"`
	Stock       int    `yaml:"stock"`
}

type seedFile struct {
	Products []rawProduct `yaml:"products"`
}

// Repository holds the catalog in memory. The product set is fixed at
// startup; only stock levels move, through inventory updates.
type Repository struct {
	mu       sync.RWMutex
	products []Product
	byID     map[string]int // index into products
}

// NewRepository seeds from seedPath when non-empty, else the built-in
// catalog. A missing or malformed seed file fails startup.
func NewRepository(seedPath string) (*Repository, error) {
	products := defaultProducts()
	if seedPath != "" {
		loaded, err := loadSeed(seedPath)
		if err != nil {
			return nil, err
		}
		products = loaded
	}

	repo := &Repository{byID: make(map[string]int, len(products))}
	for _, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog product %q: id must not be empty", p.Name)
		}
		if _, exists := repo.byID[p.ID]; exists {
			return nil, fmt.Errorf("catalog product %q: duplicate id", p.ID)
		}
		repo.byID[p.ID] = len(repo.products)
		repo.products = append(repo.products, p)
	}
	return repo, nil
}

func loadSeed(path string) ([]Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog seed %s: %w", path, err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing catalog seed %s: %w", path, err)
	}
	if len(seed.Products) == 0 {
		return nil, fmt.Errorf("catalog seed %s contains no products", path)
	}

	out := make([]Product, 0, len(seed.Products))
	for _, raw := range seed.Products {
		price, err := decimal.NewFromString(raw.Price)
		if err != nil {
			return nil, fmt.Errorf("catalog product %q: invalid price %q: %w", raw.ID, raw.Price, err)
		}
		out = append(out, Product{
			ID:          raw.ID,
			Name:        raw.Name,
			Description: raw.Description,
			Category:    raw.Category,
			Price:       price,
			ImageURL:    raw.ImageURL,
			Stock:       raw.Stock,
		})
	}
	return out, nil
}

// List returns every product in seed order.
func (r *Repository) List() []Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, len(r.products))
	copy(out, r.products)
	return out
}

// Get returns the product with the given id.
func (r *Repository) Get(id string) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byID[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return r.products[idx], nil
}

// Query narrows List. Zero-value fields do not filter.
type Query struct {
	// Text matches case-insensitively against name and description.
	Text string
	// Category matches the product category, case-insensitively.
	Category string
	// MinPrice / MaxPrice are inclusive bounds.
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// Find scans the catalog and returns every product matching q, in seed
// order.
func (r *Repository) Find(q Query) []Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	text := strings.ToLower(strings.TrimSpace(q.Text))
	out := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		if text != "" &&
			!strings.Contains(strings.ToLower(p.Name), text) &&
			!strings.Contains(strings.ToLower(p.Description), text) {
			continue
		}
		if q.Category != "" && !strings.EqualFold(p.Category, q.Category) {
			continue
		}
		if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Search matches text against product names and descriptions.
func (r *Repository) Search(text string) []Product {
	return r.Find(Query{Text: text})
}

// Filter narrows by category and inclusive price bounds.
func (r *Repository) Filter(category string, minPrice, maxPrice *decimal.Decimal) []Product {
	return r.Find(Query{Category: category, MinPrice: minPrice, MaxPrice: maxPrice})
}

// SetStock replaces one product's stock level.
func (r *Repository) SetStock(id string, stock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	r.products[idx].Stock = stock
	return nil
}

// defaultProducts is the built-in seed used when no seed file is
// configured.
func defaultProducts() []Product {
	return []Product{
		{
			ID:          "p-1001",
			Name:        "Aurora Desk Lamp",
			Description: "Warm LED desk lamp with a touch dimmer and USB-C charging port",
			Category:    "home",
			Price:       decimal.RequireFromString("49.99"),
			ImageURL:    "/images/aurora-desk-lamp.jpg",
			Stock:       24,
		},
		{
			ID:          "p-1002",
			Name:        "Cascade Water Bottle",
			Description: "Insulated 750ml bottle that keeps drinks cold for 24 hours",
			Category:    "outdoors",
			Price:       decimal.RequireFromString("29.50"),
			ImageURL:    "/images/cascade-water-bottle.jpg",
			Stock:       112,
		},
		{
			ID:          "p-1003",
			Name:        "Drift Wireless Earbuds",
			Description: "Noise-isolating earbuds with a pocket charging case",
			Category:    "electronics",
			Price:       decimal.RequireFromString("89.00"),
			ImageURL:    "/images/drift-earbuds.jpg",
			Stock:       41,
		},
		{
			ID:          "p-1004",
			Name:        "Summit Daypack",
			Description: "22L daypack with laptop sleeve and rain cover",
			Category:    "outdoors",
			Price:       decimal.RequireFromString("74.95"),
			ImageURL:    "/images/summit-daypack.jpg",
			Stock:       18,
		},
		{
			ID:          "p-1005",
			Name:        "Ember Pour-Over Kettle",
			Description: "Gooseneck kettle with built-in thermometer for precise brewing",
			Category:    "kitchen",
			Price:       decimal.RequireFromString("58.00"),
			ImageURL:    "/images/ember-kettle.jpg",
			Stock:       33,
		},
		{
			ID:          "p-1006",
			Name:        "Nimbus Mechanical Keyboard",
			Description: "Compact 75% keyboard with hot-swappable switches",
			Category:    "electronics",
			Price:       decimal.RequireFromString("129.99"),
			ImageURL:    "/images/nimbus-keyboard.jpg",
			Stock:       9,
		},
		{
			ID:          "p-1007",
			Name:        "Terra Ceramic Planter",
			Description: "Hand-glazed planter with a matching drainage tray",
			Category:    "home",
			Price:       decimal.RequireFromString("23.75"),
			ImageURL:    "/images/terra-planter.jpg",
			Stock:       57,
		},
		{
			ID:          "p-1008",
			Name:        "Vista Travel Mug",
			Description: "Leak-proof 400ml mug with one-handed flip lid",
			Category:    "kitchen",
			Price:       decimal.RequireFromString("21.00"),
			ImageURL:    "/images/vista-travel-mug.jpg",
			Stock:       84,
		},
	}
}
