package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bookbright/electryohype/storage"
	"github.com/bookbright/electryohype/storage/db"
)

// ProductsHandler serves the storefront catalog reads.
type ProductsHandler struct {
	storage *storage.Storage
}

func NewProductsHandler(s *storage.Storage) *ProductsHandler {
	return &ProductsHandler{storage: s}
}

type productSummary struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Slug             string   `json:"slug"`
	ShortDescription string   `json:"shortDescription,omitempty"`
	Price            int64    `json:"price"`
	CompareAtPrice   *int64   `json:"compareAtPrice,omitempty"`
	Category         string   `json:"category"`
	Supplier         string   `json:"supplier,omitempty"`
	Tags             []string `json:"tags"`
	Featured         bool     `json:"featured"`
}

type productDetail struct {
	productSummary
	Description      string            `json:"description"`
	ShippingEstimate string            `json:"shippingEstimate,omitempty"`
	Specs            map[string]string `json:"specs"`
	Images           []string          `json:"images"`
	Variants         []variantResponse `json:"variants"`
}

type variantResponse struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	SKU            string            `json:"sku,omitempty"`
	Price          int64             `json:"price"`
	CompareAtPrice *int64            `json:"compareAtPrice,omitempty"`
	Image          string            `json:"image,omitempty"`
	Attributes     map[string]string `json:"attributes"`
	Stock          int64             `json:"stock"`
}

// HandleListProducts returns active products, newest first. A failing
// query yields an empty list rather than an error page.
func (h *ProductsHandler) HandleListProducts(c echo.Context) error {
	limit := parseLimit(c.QueryParam("limit"), 24, 100)
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}

	products := storage.SafeQuery(c.Request().Context(), "ListActiveProducts", []db.Product{},
		func(ctx context.Context) ([]db.Product, error) {
			return h.storage.Queries.ListActiveProducts(ctx, db.ListActiveProductsParams{
				Limit:  int64(limit),
				Offset: int64(offset),
			})
		})

	out := make([]productSummary, 0, len(products))
	for _, p := range products {
		out = append(out, summarize(p))
	}
	return c.JSON(http.StatusOK, map[string]any{"products": out})
}

// HandleHero picks the storefront hero: the featured product, else the
// newest active one, else null.
func (h *ProductsHandler) HandleHero(c echo.Context) error {
	ctx := c.Request().Context()

	hero := storage.SafeQuery(ctx, "GetFeaturedProduct", (*db.Product)(nil), func(ctx context.Context) (*db.Product, error) {
		p, err := h.storage.Queries.GetFeaturedProduct(ctx)
		return &p, err
	})
	if hero == nil {
		hero = storage.SafeQuery(ctx, "GetNewestProduct", (*db.Product)(nil), func(ctx context.Context) (*db.Product, error) {
			p, err := h.storage.Queries.GetNewestProduct(ctx)
			return &p, err
		})
	}

	if hero == nil {
		return c.JSON(http.StatusOK, map[string]any{"product": nil})
	}
	s := summarize(*hero)
	return c.JSON(http.StatusOK, map[string]any{"product": s})
}

func (h *ProductsHandler) HandleGetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	p, err := h.storage.Queries.GetProductBySlug(ctx, c.Param("slug"))
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "product not found"})
	}
	if err != nil {
		slog.Error("failed to get product", "slug", c.Param("slug"), "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load product"})
	}

	images := storage.SafeQuery(ctx, "ListProductImages", []db.ProductImage{}, func(ctx context.Context) ([]db.ProductImage, error) {
		return h.storage.Queries.ListProductImages(ctx, p.ID)
	})
	variants := storage.SafeQuery(ctx, "ListProductVariants", []db.ProductVariant{}, func(ctx context.Context) ([]db.ProductVariant, error) {
		return h.storage.Queries.ListProductVariants(ctx, p.ID)
	})

	detail := productDetail{
		productSummary:   summarize(p),
		Description:      p.Description,
		ShippingEstimate: p.ShippingEstimate.String,
		Specs:            decodeMap(p.Specs),
		Images:           make([]string, 0, len(images)),
		Variants:         make([]variantResponse, 0, len(variants)),
	}
	for _, img := range images {
		detail.Images = append(detail.Images, img.ImageUrl)
	}
	for _, v := range variants {
		detail.Variants = append(detail.Variants, variantResponse{
			ID:             v.ID,
			Name:           v.Name,
			SKU:            v.Sku.String,
			Price:          v.Price,
			CompareAtPrice: int64Ptr(v.CompareAtPrice),
			Image:          v.ImageUrl.String,
			Attributes:     decodeMap(sql.NullString{String: v.Attributes, Valid: true}),
			Stock:          v.Stock,
		})
	}

	return c.JSON(http.StatusOK, detail)
}

func summarize(p db.Product) productSummary {
	s := productSummary{
		ID:               p.ID,
		Name:             p.Name,
		Slug:             p.Slug,
		ShortDescription: p.ShortDescription.String,
		Price:            p.Price,
		CompareAtPrice:   int64Ptr(p.CompareAtPrice),
		Category:         p.Category,
		Supplier:         p.SupplierName.String,
		Tags:             []string{},
		Featured:         p.IsFeatured.Valid && p.IsFeatured.Bool,
	}
	if p.Tags.Valid && p.Tags.String != "" {
		if err := json.Unmarshal([]byte(p.Tags.String), &s.Tags); err != nil || s.Tags == nil {
			s.Tags = []string{}
		}
	}
	return s
}

func decodeMap(raw sql.NullString) map[string]string {
	out := map[string]string{}
	if raw.Valid && raw.String != "" {
		if err := json.Unmarshal([]byte(raw.String), &out); err != nil || out == nil {
			return map[string]string{}
		}
	}
	return out
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
