package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"shelfstock/internal/domain"
	"shelfstock/internal/enrich"
	"shelfstock/internal/middleware"
	"shelfstock/internal/repository"
	"shelfstock/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateProductRequest represents the product creation payload
type CreateProductRequest struct {
	ProductName string   `json:"productName" validate:"required"`
	Brand       string   `json:"brand" validate:"required"`
	Barcode     *string  `json:"barcode"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
}

// ProductResponse wraps a single product
type ProductResponse struct {
	Success bool            `json:"success"`
	Product *domain.Product `json:"product"`
}

// ProductListResponse wraps the full catalog listing
type ProductListResponse struct {
	Success  bool              `json:"success"`
	Products []*domain.Product `json:"products"`
}

// EnrichResponse wraps an enrichment candidate that has not been persisted yet
type EnrichResponse struct {
	Success  bool                    `json:"success"`
	Enriched domain.EnrichmentResult `json:"enriched"`
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/enrich", h.Enrich)
		r.Put("/{id}/enrichment", h.SaveEnrichment)
	})
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product creation validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.Create(r.Context(), req.ProductName, req.Brand, req.Barcode, req.Images)
	if err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.String("product_name", product.ProductName),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, ProductResponse{Success: true, Product: product})
}

// List handles catalog listing, optionally filtered by the q substring
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	products, err := h.productService.Search(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to retrieve products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{Success: true, Products: products})
}

// Delete handles product deletion
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Int64("product_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.Int64("product_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Enrich runs one enrichment attempt and returns the candidate without
// persisting it
func (h *ProductHandler) Enrich(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	result, err := h.productService.Enrich(r.Context(), id)
	if err != nil {
		h.respondEnrichmentError(w, id, err)
		return
	}

	h.logger.Info("Product enriched", zap.Int64("product_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, EnrichResponse{Success: true, Enriched: result})
}

// SaveEnrichment validates an enrichment payload against the schema, merges
// it with the stored original and persists the result
func (h *ProductHandler) SaveEnrichment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	var candidate map[string]any
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	enrichment, err := enrich.ValidateCandidate(candidate)
	if err != nil {
		h.respondEnrichmentError(w, id, err)
		return
	}

	product, err := h.productService.SaveEnrichment(r.Context(), id, enrichment)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to save enrichment", zap.Int64("product_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to save enrichment")
		return
	}

	h.logger.Info("Enrichment saved", zap.Int64("product_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, ProductResponse{Success: true, Product: product})
}

func (h *ProductHandler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return 0, false
	}
	return id, true
}

// respondEnrichmentError maps each enrichment failure kind to its own status
// code: upstream and parse problems are gateway failures, schema violations
// are unprocessable, an unknown id is not found.
func (h *ProductHandler) respondEnrichmentError(w http.ResponseWriter, id int64, err error) {
	var (
		upstreamErr   *enrich.UpstreamError
		parseErr      *enrich.ParseError
		validationErr *enrich.ValidationError
	)

	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")

	case errors.As(err, &upstreamErr):
		h.logger.Error("Completion endpoint failed",
			zap.Int64("product_id", id),
			zap.Int("upstream_status", upstreamErr.Status),
			zap.String("upstream_body", upstreamErr.Body),
		)
		middleware.RespondWithError(w, http.StatusBadGateway, "completion service request failed")

	case errors.Is(err, enrich.ErrMalformedResponse), errors.Is(err, enrich.ErrNoCandidate):
		h.logger.Error("Completion response unusable", zap.Int64("product_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadGateway, "completion service returned an unusable response")

	case errors.As(err, &parseErr):
		h.logger.Error("Completion output is not valid JSON",
			zap.Int64("product_id", id),
			zap.String("candidate", parseErr.Raw),
			zap.Error(parseErr.Err),
		)
		middleware.RespondWithError(w, http.StatusBadGateway, "completion output is not valid JSON")

	case errors.As(err, &validationErr):
		h.logger.Warn("Enrichment failed schema validation",
			zap.Int64("product_id", id),
			zap.String("field", validationErr.Field),
			zap.String("reason", validationErr.Reason),
		)
		middleware.RespondWithError(w, http.StatusUnprocessableEntity, validationErr.Error())

	default:
		h.logger.Error("Enrichment failed", zap.Int64("product_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "enrichment failed")
	}
}
