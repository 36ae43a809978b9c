package analytics

import (
	"slices"
	"strings"

	"storefront-admin/models"
)

const StatusAll = "all"

// FilterProducts keeps products whose name or category contains query,
// ignoring case. Order is preserved.
func FilterProducts(products []models.Product, query string) []models.Product {
	if query == "" {
		out := slices.Clone(products)
		if out == nil {
			out = []models.Product{}
		}
		return out
	}
	q := strings.ToLower(query)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}

// FilterOrders matches the query against order id, customer name and email,
// and status against the given status unless it is empty or "all".
func FilterOrders(orders []models.Order, query, status string) []models.Order {
	q := strings.ToLower(query)
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if status != "" && status != StatusAll && string(o.Status) != status {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(o.ID), q) &&
			!strings.Contains(strings.ToLower(o.Customer.Name), q) &&
			!strings.Contains(strings.ToLower(o.Customer.Email), q) {
			continue
		}
		out = append(out, o)
	}
	return out
}
