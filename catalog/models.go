// Package catalog holds the product domain built on the generic
// repository contract. It exists alongside the auth core to prove the
// contract is entity-agnostic; nothing here knows about tokens or
// principals.
package catalog

import (
	"time"

	"github.com/uptrace/bun"
)

// Category groups products. Categories nest through ParentID; a nil
// parent marks a root category.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	Name        string `bun:"name,notnull" json:"name"`
	Slug        string `bun:"slug,notnull,unique" json:"slug"`
	Description string `bun:"description" json:"description,omitempty"`
	ImageURL    string `bun:"image_url" json:"image_url,omitempty"`
	ParentID    *int64 `bun:"parent_id" json:"parent_id,omitempty"`
	IsActive    bool   `bun:"is_active,default:true" json:"is_active"`
	SortOrder   int    `bun:"sort_order,default:0" json:"sort_order"`

	CreatedAt *time.Time `bun:"created_at" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at" json:"updated_at,omitempty"`
}

// Product is a sellable item. Slug and SKU are both unique; price is
// stored in cents to avoid floating point drift.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:prd"`

	ID           int64  `bun:"id,pk,autoincrement" json:"id"`
	Name         string `bun:"name,notnull" json:"name"`
	Slug         string `bun:"slug,notnull,unique" json:"slug"`
	Description  string `bun:"description" json:"description,omitempty"`
	PriceCents   int64  `bun:"price_cents,notnull" json:"price_cents"`
	ComparePrice *int64 `bun:"compare_price_cents" json:"compare_price_cents,omitempty"`
	SKU          string `bun:"sku,notnull,unique" json:"sku"`
	CategoryID   *int64 `bun:"category_id" json:"category_id,omitempty"`

	Category *Category `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
}
