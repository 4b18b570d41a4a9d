package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"

	"github.com/bookbright/electryohype/internal/auth"
	"github.com/bookbright/electryohype/internal/importer"
	"github.com/bookbright/electryohype/internal/metrics"
	"github.com/bookbright/electryohype/internal/pricing"
	"github.com/bookbright/electryohype/internal/supplier"
	"github.com/bookbright/electryohype/internal/utils"
	"github.com/bookbright/electryohype/storage"
	"github.com/bookbright/electryohype/storage/db"
)

const defaultImportTimeout = 60 * time.Second

// AdminImportHandler runs supplier imports for the admin UI.
type AdminImportHandler struct {
	storage    *storage.Storage
	registry   *importer.Registry
	normalizer pricing.Normalizer
	timeout    time.Duration
}

func NewAdminImportHandler(s *storage.Storage, registry *importer.Registry, normalizer pricing.Normalizer, timeout time.Duration) *AdminImportHandler {
	if timeout <= 0 {
		timeout = defaultImportTimeout
	}
	return &AdminImportHandler{
		storage:    s,
		registry:   registry,
		normalizer: normalizer,
		timeout:    timeout,
	}
}

type importRequest struct {
	URL      string `json:"url"`
	Provider string `json:"provider"`
	Save     bool   `json:"save"`
}

type importResponse struct {
	pricing.ImportPayload
	ProductID string `json:"productId,omitempty"`
}

type importError struct {
	Error    string `json:"error"`
	Supplier string `json:"supplier,omitempty"`
	Hint     string `json:"hint,omitempty"`
}

// HandleImport scrapes, maps and prices one product. With save set the
// product is also written to the catalog.
func (h *AdminImportHandler) HandleImport(c echo.Context) error {
	var req importRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, importError{Error: "invalid request body"})
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		return c.JSON(http.StatusBadRequest, importError{Error: "url is required"})
	}

	provider, status, errBody := h.resolveProvider(req)
	if provider == nil {
		metrics.RecordImport("none", "unsupported")
		return c.JSON(status, errBody)
	}
	source := provider.Source()

	normalized, err := provider.NormalizeURL(req.URL)
	if err != nil {
		metrics.RecordImport(string(source), "invalid_url")
		return c.JSON(http.StatusBadRequest, importError{Error: err.Error(), Supplier: string(source)})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	jobID := h.startJob(ctx, source, normalized)
	slog.Info("import started", "job_id", jobID, "supplier", source, "url", normalized, "actor", auth.ActorID(c))

	raw, err := provider.FetchProduct(ctx, normalized)
	if err != nil {
		h.failJob(ctx, jobID, err.Error())
		metrics.RecordImport(string(source), "scrape_failed")
		return c.JSON(http.StatusBadGateway, importError{
			Error:    err.Error(),
			Supplier: string(source),
			Hint:     importer.Hint(source),
		})
	}

	payload := h.normalizer.Normalize(provider.MapToProduct(raw, normalized))
	resp := importResponse{ImportPayload: payload}

	if req.Save {
		productID, err := h.saveProduct(ctx, payload)
		if err != nil {
			slog.Error("failed to save imported product", "job_id", jobID, "url", normalized, "error", err)
			h.failJob(ctx, jobID, "save failed: "+err.Error())
			metrics.RecordImport(string(source), "save_failed")
			return c.JSON(http.StatusInternalServerError, importError{Error: "failed to save product", Supplier: string(source)})
		}
		resp.ProductID = productID
	}

	h.completeJob(ctx, jobID, resp.ProductID)
	metrics.RecordImport(string(source), "success")
	slog.Info("import completed", "job_id", jobID, "supplier", source, "product_id", resp.ProductID, "variants", len(payload.Variants))

	return c.JSON(http.StatusOK, resp)
}

func (h *AdminImportHandler) resolveProvider(req importRequest) (importer.Provider, int, importError) {
	if req.Provider != "" {
		p, ok := h.registry.Get(req.Provider)
		if !ok {
			return nil, http.StatusBadRequest, importError{
				Error: fmt.Sprintf("unknown provider %q", req.Provider),
				Hint:  importer.Hint(supplier.None),
			}
		}
		if !p.CanHandle(req.URL) {
			return nil, http.StatusBadRequest, importError{
				Error:    fmt.Sprintf("%s cannot import this URL", p.Name()),
				Supplier: string(p.Source()),
				Hint:     importer.Hint(supplier.None),
			}
		}
		return p, 0, importError{}
	}

	p, ok := h.registry.Detect(req.URL)
	if !ok {
		return nil, http.StatusBadRequest, importError{
			Error: "could not detect a supported supplier for this URL",
			Hint:  importer.Hint(supplier.None),
		}
	}
	return p, 0, importError{}
}

// saveProduct writes the product, its images and variants in one
// transaction. A product already imported from the same URL is updated:
// images are replaced and variants are synced by SKU.
func (h *AdminImportHandler) saveProduct(ctx context.Context, p pricing.ImportPayload) (string, error) {
	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	specs, err := json.Marshal(p.Specs)
	if err != nil {
		return "", fmt.Errorf("encode specs: %w", err)
	}

	var productID string
	err = h.storage.WithTx(ctx, func(q *db.Queries) error {
		existing, err := q.GetProductBySourceURL(ctx, nullString(p.SourceURL))
		switch {
		case err == nil:
			productID = existing.ID
			if err := q.UpdateImportedProduct(ctx, db.UpdateImportedProductParams{
				Name:             p.Name,
				Description:      p.Description,
				ShortDescription: nullString(p.ShortDescription),
				Price:            p.Price,
				CompareAtPrice:   sql.NullInt64{Int64: p.CompareAtPrice, Valid: true},
				CostPrice:        sql.NullFloat64{Float64: p.CostPrice, Valid: true},
				Category:         p.Category,
				SupplierName:     nullString(p.Supplier),
				ShippingEstimate: nullString(p.ShippingEstimate),
				Tags:             nullString(string(tags)),
				Specs:            nullString(string(specs)),
				IsActive:         sql.NullBool{Bool: p.Available, Valid: true},
				ID:               productID,
			}); err != nil {
				return fmt.Errorf("update product: %w", err)
			}
			if err := q.DeleteProductImages(ctx, productID); err != nil {
				return fmt.Errorf("delete images: %w", err)
			}

		case errors.Is(err, sql.ErrNoRows):
			slug := utils.Slugify(p.Name)
			if n, err := q.CountProductsBySlug(ctx, slug); err != nil {
				return fmt.Errorf("check slug: %w", err)
			} else if n > 0 {
				slug = utils.UniqueSlug(p.Name)
			}

			productID = uuid.New().String()
			if _, err := q.CreateProduct(ctx, db.CreateProductParams{
				ID:               productID,
				Name:             p.Name,
				Slug:             slug,
				Description:      p.Description,
				ShortDescription: nullString(p.ShortDescription),
				Price:            p.Price,
				CompareAtPrice:   sql.NullInt64{Int64: p.CompareAtPrice, Valid: true},
				CostPrice:        sql.NullFloat64{Float64: p.CostPrice, Valid: true},
				Category:         p.Category,
				SupplierName:     nullString(p.Supplier),
				SourceUrl:        nullString(p.SourceURL),
				ShippingEstimate: nullString(p.ShippingEstimate),
				Tags:             nullString(string(tags)),
				Specs:            nullString(string(specs)),
				IsActive:         sql.NullBool{Bool: p.Available, Valid: true},
				IsFeatured:       sql.NullBool{Bool: false, Valid: true},
			}); err != nil {
				return fmt.Errorf("create product: %w", err)
			}

		default:
			return fmt.Errorf("find product by source url: %w", err)
		}

		for i, img := range p.Images {
			if _, err := q.CreateProductImage(ctx, db.CreateProductImageParams{
				ID:           uuid.New().String(),
				ProductID:    productID,
				ImageUrl:     img,
				DisplayOrder: sql.NullInt64{Int64: int64(i), Valid: true},
				IsPrimary:    sql.NullBool{Bool: i == 0, Valid: true},
			}); err != nil {
				return fmt.Errorf("create image: %w", err)
			}
		}

		return syncVariants(ctx, q, productID, p.Variants)
	})
	if err != nil {
		return "", err
	}
	return productID, nil
}

// syncVariants updates stored variants whose SKU is still offered, creates
// new ones and removes the rest. Variants referenced by an order item are
// kept with zero stock so order history and dispatch keep their SKU.
func syncVariants(ctx context.Context, q *db.Queries, productID string, variants []pricing.Variant) error {
	stored, err := q.ListProductVariants(ctx, productID)
	if err != nil {
		return fmt.Errorf("list variants: %w", err)
	}
	bySKU := make(map[string]db.ProductVariant, len(stored))
	for _, sv := range stored {
		if sv.Sku.Valid && sv.Sku.String != "" {
			bySKU[sv.Sku.String] = sv
		}
	}

	kept := make(map[string]bool, len(variants))
	for i, v := range variants {
		attrs, err := json.Marshal(v.Attributes)
		if err != nil {
			return fmt.Errorf("encode variant attributes: %w", err)
		}
		compareAt := sql.NullInt64{}
		if v.CompareAtPrice != nil {
			compareAt = sql.NullInt64{Int64: *v.CompareAtPrice, Valid: true}
		}
		order := sql.NullInt64{Int64: int64(i), Valid: true}

		if sv, ok := bySKU[v.SKU]; ok && v.SKU != "" {
			kept[sv.ID] = true
			if err := q.UpdateProductVariant(ctx, db.UpdateProductVariantParams{
				Name:           v.Name,
				Price:          v.Price,
				CompareAtPrice: compareAt,
				SupplierPrice:  v.SupplierPrice,
				ImageUrl:       nullString(v.Image),
				Attributes:     string(attrs),
				Stock:          int64(v.Stock),
				DisplayOrder:   order,
				ID:             sv.ID,
			}); err != nil {
				return fmt.Errorf("update variant %q: %w", v.Name, err)
			}
			continue
		}

		if _, err := q.CreateProductVariant(ctx, db.CreateProductVariantParams{
			ID:             uuid.New().String(),
			ProductID:      productID,
			Name:           v.Name,
			Sku:            nullString(v.SKU),
			Price:          v.Price,
			CompareAtPrice: compareAt,
			SupplierPrice:  v.SupplierPrice,
			ImageUrl:       nullString(v.Image),
			Attributes:     string(attrs),
			Stock:          int64(v.Stock),
			DisplayOrder:   order,
		}); err != nil {
			return fmt.Errorf("create variant %q: %w", v.Name, err)
		}
	}

	retired := len(variants)
	for _, sv := range stored {
		if kept[sv.ID] {
			continue
		}
		n, err := q.DeleteUnorderedProductVariant(ctx, sv.ID)
		if err != nil {
			return fmt.Errorf("delete variant %q: %w", sv.Name, err)
		}
		if n > 0 {
			continue
		}
		if err := q.RetireProductVariant(ctx, db.RetireProductVariantParams{
			DisplayOrder: sql.NullInt64{Int64: int64(retired), Valid: true},
			ID:           sv.ID,
		}); err != nil {
			return fmt.Errorf("retire variant %q: %w", sv.Name, err)
		}
		retired++
	}
	return nil
}

// Job bookkeeping never fails an import. It uses a context detached from
// the request so a timed out scrape is still recorded.
func (h *AdminImportHandler) startJob(ctx context.Context, source supplier.Source, url string) string {
	id := ulid.Make().String()
	if _, err := h.storage.Queries.CreateImportJob(context.WithoutCancel(ctx), db.CreateImportJobParams{
		ID:        id,
		Supplier:  string(source),
		SourceUrl: url,
	}); err != nil {
		slog.Error("failed to create import job", "error", err)
	}
	return id
}

func (h *AdminImportHandler) failJob(ctx context.Context, id, reason string) {
	if err := h.storage.Queries.FailImportJob(context.WithoutCancel(ctx), db.FailImportJobParams{
		ErrorMessage: nullString(reason),
		ID:           id,
	}); err != nil {
		slog.Error("failed to mark import job failed", "job_id", id, "error", err)
	}
}

func (h *AdminImportHandler) completeJob(ctx context.Context, id, productID string) {
	if err := h.storage.Queries.CompleteImportJob(context.WithoutCancel(ctx), db.CompleteImportJobParams{
		ProductID: nullString(productID),
		ID:        id,
	}); err != nil {
		slog.Error("failed to complete import job", "job_id", id, "error", err)
	}
}

type importJobResponse struct {
	ID          string     `json:"id"`
	Supplier    string     `json:"supplier"`
	SourceURL   string     `json:"sourceUrl"`
	Status      string     `json:"status"`
	Error       string     `json:"error,omitempty"`
	ProductID   string     `json:"productId,omitempty"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// HandleListImports returns the most recent import attempts.
func (h *AdminImportHandler) HandleListImports(c echo.Context) error {
	limit := parseLimit(c.QueryParam("limit"), 50, 200)

	jobs, err := h.storage.Queries.ListImportJobs(c.Request().Context(), int64(limit))
	if err != nil {
		slog.Error("failed to list import jobs", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list imports"})
	}

	out := make([]importJobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, importJobResponse{
			ID:          j.ID,
			Supplier:    j.Supplier,
			SourceURL:   j.SourceUrl,
			Status:      j.Status,
			Error:       j.ErrorMessage.String,
			ProductID:   j.ProductID.String,
			StartedAt:   timePtr(j.StartedAt),
			CompletedAt: timePtr(j.CompletedAt),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"imports": out})
}
