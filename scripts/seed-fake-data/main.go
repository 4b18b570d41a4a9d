package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/bookbright/electryohype/internal/importer"
	"github.com/bookbright/electryohype/internal/pricing"
	"github.com/bookbright/electryohype/internal/supplier"
	"github.com/bookbright/electryohype/internal/utils"
	"github.com/bookbright/electryohype/storage"
	"github.com/bookbright/electryohype/storage/db"
)

const (
	numProducts = 12
	numOrders   = 6
)

var colors = []string{"Black", "White", "Blue", "Red"}

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./db/electryohype.db"
	}

	store, err := storage.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	normalizer := pricing.DefaultNormalizer()

	fmt.Println("Seeding demo catalog...")
	var products []db.Product
	for i := range numProducts {
		p, err := seedProduct(ctx, store, normalizer, i == 0)
		if err != nil {
			log.Fatalf("Failed to seed product: %v", err)
		}
		products = append(products, p)
	}
	fmt.Printf("✓ %d products\n", len(products))

	// The first order has no items, for the send-to-supplier not-found path.
	if _, err := seedOrder(ctx, store.Queries, nil); err != nil {
		log.Fatalf("Failed to seed order: %v", err)
	}
	for range numOrders - 1 {
		n := gofakeit.IntRange(1, 3)
		picked := make([]db.Product, 0, n)
		for range n {
			picked = append(picked, products[gofakeit.IntRange(0, len(products)-1)])
		}
		if _, err := seedOrder(ctx, store.Queries, picked); err != nil {
			log.Fatalf("Failed to seed order: %v", err)
		}
	}
	fmt.Printf("✓ %d orders\n", numOrders)
	fmt.Println("Done.")
}

// seedProduct runs a fake supplier listing through the normalizer so
// stored prices follow the import rules.
func seedProduct(ctx context.Context, store *storage.Storage, n pricing.Normalizer, featured bool) (db.Product, error) {
	sources := supplier.Sources()
	source := sources[gofakeit.IntRange(0, len(sources)-1)]
	itemID := gofakeit.IntRange(100000000, 999999999)

	mapped := importer.MappedProduct{
		Supplier:    source,
		SourceURL:   fmt.Sprintf("https://www.%s.com/item-%d.html", source, itemID),
		Title:       gofakeit.ProductName(),
		Description: gofakeit.ProductDescription(),
		Price:       importer.Price{Amount: gofakeit.Price(3, 80), Currency: "USD"},
		Images: []string{
			fmt.Sprintf("https://img.%s.com/%d/1.jpg", source, itemID),
			fmt.Sprintf("https://img.%s.com/%d/2.jpg", source, itemID),
		},
		Specs: []importer.Spec{
			{Key: "Category", Value: gofakeit.ProductCategory()},
			{Key: "Material", Value: gofakeit.ProductMaterial()},
		},
		Available: true,
	}
	for _, color := range colors[:gofakeit.IntRange(0, len(colors))] {
		stock := gofakeit.IntRange(0, 40)
		mapped.Variants = append(mapped.Variants, importer.MappedVariant{
			Name:       color,
			Attributes: map[string]string{"Color": color},
			Stock:      &stock,
		})
	}

	payload := n.Normalize(mapped)
	tags, _ := json.Marshal(payload.Tags)
	specs, _ := json.Marshal(payload.Specs)

	var product db.Product
	err := store.WithTx(ctx, func(q *db.Queries) error {
		var err error
		product, err = q.CreateProduct(ctx, db.CreateProductParams{
			ID:               uuid.New().String(),
			Name:             payload.Name,
			Slug:             utils.UniqueSlug(payload.Name),
			Description:      payload.Description,
			ShortDescription: sql.NullString{String: payload.ShortDescription, Valid: true},
			Price:            payload.Price,
			CompareAtPrice:   sql.NullInt64{Int64: payload.CompareAtPrice, Valid: true},
			CostPrice:        sql.NullFloat64{Float64: payload.CostPrice, Valid: true},
			Category:         payload.Category,
			SupplierName:     sql.NullString{String: payload.Supplier, Valid: true},
			SourceUrl:        sql.NullString{String: payload.SourceURL, Valid: true},
			Tags:             sql.NullString{String: string(tags), Valid: true},
			Specs:            sql.NullString{String: string(specs), Valid: true},
			IsActive:         sql.NullBool{Bool: true, Valid: true},
			IsFeatured:       sql.NullBool{Bool: featured, Valid: true},
		})
		if err != nil {
			return err
		}

		for i, img := range payload.Images {
			if _, err := q.CreateProductImage(ctx, db.CreateProductImageParams{
				ID:           uuid.New().String(),
				ProductID:    product.ID,
				ImageUrl:     img,
				DisplayOrder: sql.NullInt64{Int64: int64(i), Valid: true},
				IsPrimary:    sql.NullBool{Bool: i == 0, Valid: true},
			}); err != nil {
				return err
			}
		}

		for i, v := range payload.Variants {
			attrs, _ := json.Marshal(v.Attributes)
			if _, err := q.CreateProductVariant(ctx, db.CreateProductVariantParams{
				ID:            uuid.New().String(),
				ProductID:     product.ID,
				Name:          v.Name,
				Sku:           sql.NullString{String: v.SKU, Valid: v.SKU != ""},
				Price:         v.Price,
				SupplierPrice: v.SupplierPrice,
				ImageUrl:      sql.NullString{String: v.Image, Valid: v.Image != ""},
				Attributes:    string(attrs),
				Stock:         int64(v.Stock),
				DisplayOrder:  sql.NullInt64{Int64: int64(i), Valid: true},
			}); err != nil {
				return err
			}
		}
		return nil
	})
	return product, err
}

func seedOrder(ctx context.Context, q *db.Queries, products []db.Product) (db.Order, error) {
	addr := gofakeit.Address()

	var total int64
	for _, p := range products {
		total += p.Price
	}

	order, err := q.CreateOrder(ctx, db.CreateOrderParams{
		ID:                 ulid.Make().String(),
		CustomerName:       gofakeit.Name(),
		CustomerEmail:      gofakeit.Email(),
		ShippingLine1:      addr.Street,
		ShippingCity:       addr.City,
		ShippingState:      sql.NullString{String: addr.State, Valid: addr.State != ""},
		ShippingPostalCode: addr.Zip,
		ShippingCountry:    "MA",
		Total:              total,
	})
	if err != nil {
		return db.Order{}, err
	}

	for _, p := range products {
		if _, err := q.CreateOrderItem(ctx, db.CreateOrderItemParams{
			ID:        ulid.Make().String(),
			OrderID:   order.ID,
			ProductID: p.ID,
			Quantity:  1,
			UnitPrice: p.Price,
		}); err != nil {
			return db.Order{}, err
		}
	}
	return order, nil
}
