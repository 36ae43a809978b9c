package models

import "time"

type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Image        string    `json:"image"`
	Price        float64   `json:"price"`
	MRP          *float64  `json:"mrp,omitempty"`
	Stock        int       `json:"stock"`
	TotalSold    int       `json:"totalSold"`
	TotalRevenue float64   `json:"totalRevenue"`
	Category     string    `json:"category"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ProductInput struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Price       float64  `json:"price" binding:"gte=0"`
	MRP         *float64 `json:"mrp" binding:"omitempty,gte=0"`
	Stock       int      `json:"stock" binding:"gte=0"`
	Category    string   `json:"category"`
}

// ProductPatch carries a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Image        *string  `json:"image"`
	Price        *float64 `json:"price" binding:"omitempty,gte=0"`
	MRP          *float64 `json:"mrp" binding:"omitempty,gte=0"`
	Stock        *int     `json:"stock" binding:"omitempty,gte=0"`
	TotalSold    *int     `json:"totalSold" binding:"omitempty,gte=0"`
	TotalRevenue *float64 `json:"totalRevenue" binding:"omitempty,gte=0"`
	Category     *string  `json:"category"`
	// ClearMRP removes the list price; it wins over MRP.
	ClearMRP     bool     `json:"clearMrp"`
}

func (p ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Image != nil {
		product.Image = *p.Image
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.MRP != nil {
		mrp := *p.MRP
		product.MRP = &mrp
	}
	if p.ClearMRP {
		product.MRP = nil
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
	if p.TotalSold != nil {
		product.TotalSold = *p.TotalSold
	}
	if p.TotalRevenue != nil {
		product.TotalRevenue = *p.TotalRevenue
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
}

// ProductView is a product as listed to the dashboard, with its derived
// discount.
type ProductView struct {
	Product
	DiscountPercent int `json:"discountPercent"`
}
