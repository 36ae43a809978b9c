package analytics

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"storefront-admin/models"
)

var ErrUnknownSortKey = errors.New("unknown sort key")

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(s)) {
	case Ascending:
		return Ascending, nil
	case Descending, "":
		return Descending, nil
	}
	return "", fmt.Errorf("invalid sort direction %q", s)
}

type SortKey string

const (
	KeyID           SortKey = "id"
	KeyName         SortKey = "name"
	KeyDescription  SortKey = "description"
	KeyImage        SortKey = "image"
	KeyCategory     SortKey = "category"
	KeyPrice        SortKey = "price"
	KeyMRP          SortKey = "mrp"
	KeyStock        SortKey = "stock"
	KeyTotalSold    SortKey = "totalSold"
	KeyTotalRevenue SortKey = "totalRevenue"
	KeyCreatedAt    SortKey = "createdAt"
)

// Field extractors. A key lives in exactly one of the two maps.
var (
	numericFields = map[SortKey]func(*models.Product) float64{
		KeyPrice: func(p *models.Product) float64 { return p.Price },
		KeyMRP: func(p *models.Product) float64 {
			if p.MRP == nil {
				return 0
			}
			return *p.MRP
		},
		KeyStock:        func(p *models.Product) float64 { return float64(p.Stock) },
		KeyTotalSold:    func(p *models.Product) float64 { return float64(p.TotalSold) },
		KeyTotalRevenue: func(p *models.Product) float64 { return p.TotalRevenue },
		KeyCreatedAt: func(p *models.Product) float64 {
			if p.CreatedAt.IsZero() {
				return 0
			}
			return float64(p.CreatedAt.UnixMilli())
		},
	}

	stringFields = map[SortKey]func(*models.Product) string{
		KeyID:          func(p *models.Product) string { return p.ID },
		KeyName:        func(p *models.Product) string { return p.Name },
		KeyDescription: func(p *models.Product) string { return p.Description },
		KeyImage:       func(p *models.Product) string { return p.Image },
		KeyCategory:    func(p *models.Product) string { return p.Category },
	}
)

func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(s)
	if !key.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
	}
	return key, nil
}

func (k SortKey) Valid() bool {
	if _, ok := numericFields[k]; ok {
		return true
	}
	_, ok := stringFields[k]
	return ok
}

func (k SortKey) Numeric() bool {
	_, ok := numericFields[k]
	return ok
}

func comparator(key SortKey) (func(a, b *models.Product) int, error) {
	if get, ok := numericFields[key]; ok {
		return func(a, b *models.Product) int { return cmp.Compare(get(a), get(b)) }, nil
	}
	if get, ok := stringFields[key]; ok {
		return func(a, b *models.Product) int { return strings.Compare(get(a), get(b)) }, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSortKey, key)
}

// Sort returns a stably ordered copy of products. Equal keys keep their input
// order in either direction.
func Sort(products []models.Product, key SortKey, dir Direction) ([]models.Product, error) {
	compare, err := comparator(key)
	if err != nil {
		return nil, err
	}
	out := slices.Clone(products)
	if out == nil {
		out = []models.Product{}
	}
	slices.SortStableFunc(out, func(a, b models.Product) int {
		c := compare(&a, &b)
		if dir == Ascending {
			return c
		}
		return -c
	})
	return out, nil
}

// SortState is the active column and direction of a sortable table.
type SortState struct {
	Key       SortKey
	Direction Direction
}

var DefaultSortState = SortState{Key: KeyTotalRevenue, Direction: Descending}

// Toggle returns the state after the user selects key. Re-selecting the
// current descending key flips it to ascending; any other selection starts
// descending.
func (s SortState) Toggle(key SortKey) SortState {
	if s.Key == key && s.Direction == Descending {
		return SortState{Key: key, Direction: Ascending}
	}
	return SortState{Key: key, Direction: Descending}
}

func (s SortState) View() models.SortView {
	return models.SortView{Key: string(s.Key), Direction: string(s.Direction)}
}

// TopN returns the first n products ordered descending by key. A collection
// smaller than n is returned whole.
func TopN(products []models.Product, key SortKey, n int) ([]models.Product, error) {
	sorted, err := Sort(products, key, Descending)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []models.Product{}, nil
	}
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted, nil
}

// MaxOf returns the largest value of a numeric key, or 0 for an empty
// collection.
func MaxOf(products []models.Product, key SortKey) (float64, error) {
	get, ok := numericFields[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q is not numeric", ErrUnknownSortKey, key)
	}
	maxValue := 0.0
	for i := range products {
		if v := get(&products[i]); i == 0 || v > maxValue {
			maxValue = v
		}
	}
	return maxValue, nil
}

func PercentOfMax(value, maxValue float64) int {
	if maxValue == 0 {
		return 0
	}
	return int(math.Round(value / maxValue * 100))
}
