package handler

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"perfectapi/internal/domain"
	"perfectapi/internal/etag"
	"perfectapi/internal/pagination"
	"perfectapi/internal/service"
)

var skuPattern = regexp.MustCompile(`^SKU-[A-Z0-9]{6}$`)

// ProductHandler serves the /products endpoints.
type ProductHandler struct {
	products *service.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// HandleList serves GET /products.
func (h *ProductHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageParams(r)
	if err != nil {
		writeProblem(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	filter, err := parseProductFilter(r)
	if err != nil {
		writeProblem(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	products, err := h.products.List(filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	items := make([]productDTO, 0, size)
	for _, p := range pagination.Slice(products, page, size) {
		items = append(items, toProductDTO(p))
	}
	writeJSON(w, http.StatusOK, collection[productDTO]{
		Items:    items,
		Page:     page,
		PageSize: size,
		Total:    len(products),
		Links:    pagination.Build(absoluteURL(r), page, size, len(products)),
	})
}

type dimensionsInput struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

type productInput struct {
	SKU        string           `json:"sku"`
	Name       string           `json:"name"`
	Price      string           `json:"price"`
	Category   string           `json:"category"`
	Tags       []string         `json:"tags"`
	Dimensions *dimensionsInput `json:"dimensions"`
}

// HandleCreate serves POST /products.
func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	product, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}
	created, err := h.products.Create(r.Context(), product, actorFrom(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	dto := toProductDTO(created)
	tag, err := etag.Compute(dto)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.Header().Set("Location", "/products/"+strconv.FormatInt(created.ID, 10))
	w.Header().Set("ETag", tag)
	writeJSON(w, http.StatusCreated, dto)
}

// HandleGet serves GET /products/{id} with conditional request support.
func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathProductID(w, r)
	if !ok {
		return
	}
	product, err := h.products.Get(id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	dto := toProductDTO(product)
	tag, err := etag.Compute(dto)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.Header().Set("ETag", tag)
	if etag.Match(r.Header.Get("If-None-Match"), tag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// HandleReplace serves PUT /products/{id}. The whole representation is
// replaced; the id is taken from the path.
func (h *ProductHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathProductID(w, r)
	if !ok {
		return
	}
	product, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}
	updated, err := h.products.Replace(r.Context(), id, product, actorFrom(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	dto := toProductDTO(updated)
	tag, err := etag.Compute(dto)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.Header().Set("ETag", tag)
	writeJSON(w, http.StatusOK, dto)
}

// HandleDelete serves DELETE /products/{id}.
func (h *ProductHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathProductID(w, r)
	if !ok {
		return
	}
	if err := h.products.Delete(r.Context(), id, actorFrom(r)); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) decodeProduct(w http.ResponseWriter, r *http.Request) (domain.Product, bool) {
	var in productInput
	if err := readJSON(r, &in); err != nil {
		writeBodyError(w, r, err)
		return domain.Product{}, false
	}
	product, err := validateProduct(in)
	if err != nil {
		writeProblem(w, r, http.StatusUnprocessableEntity, err.Error())
		return domain.Product{}, false
	}
	return product, true
}

func validateProduct(in productInput) (domain.Product, error) {
	if !skuPattern.MatchString(in.SKU) {
		return domain.Product{}, fmt.Errorf("sku: must match SKU- followed by 6 uppercase letters or digits")
	}
	if len(in.Name) < 1 || len(in.Name) > 120 {
		return domain.Product{}, fmt.Errorf("name: must be between 1 and 120 characters")
	}
	price, err := decimal.NewFromString(in.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("price: must be a decimal number")
	}
	if price.IsNegative() {
		return domain.Product{}, fmt.Errorf("price: must not be negative")
	}
	if !domain.ValidCategory(domain.Category(in.Category)) {
		return domain.Product{}, fmt.Errorf("category: must be one of book, device, clothing")
	}
	if len(in.Tags) > 15 {
		return domain.Product{}, fmt.Errorf("tags: must contain at most 15 entries")
	}
	seen := make(map[string]bool, len(in.Tags))
	for _, tag := range in.Tags {
		if len(tag) < 1 || len(tag) > 30 {
			return domain.Product{}, fmt.Errorf("tags: entries must be between 1 and 30 characters")
		}
		key := strings.ToLower(tag)
		if seen[key] {
			return domain.Product{}, fmt.Errorf("tags: entries must be unique")
		}
		seen[key] = true
	}

	var dims *domain.Dimensions
	if in.Dimensions != nil {
		d := in.Dimensions
		if d.Width <= 0 || d.Height <= 0 || d.Depth <= 0 {
			return domain.Product{}, fmt.Errorf("dimensions: width, height and depth must be positive")
		}
		dims = &domain.Dimensions{W: d.Width, H: d.Height, D: d.Depth}
	}

	return domain.Product{
		SKU:        in.SKU,
		Name:       in.Name,
		Price:      service.Quantize(price),
		Category:   domain.Category(in.Category),
		Tags:       in.Tags,
		Dimensions: dims,
	}, nil
}

func parseProductFilter(r *http.Request) (service.ProductFilter, error) {
	q := r.URL.Query()
	filter := service.ProductFilter{Query: q.Get("q")}

	if raw := q.Get("category"); raw != "" {
		category := domain.Category(raw)
		if !domain.ValidCategory(category) {
			return service.ProductFilter{}, fmt.Errorf("category: must be one of book, device, clothing")
		}
		filter.Category = &category
	}
	if raw := q.Get("min_price"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return service.ProductFilter{}, fmt.Errorf("min_price: must be a decimal number")
		}
		filter.MinPrice = &v
	}
	if raw := q.Get("max_price"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return service.ProductFilter{}, fmt.Errorf("max_price: must be a decimal number")
		}
		filter.MaxPrice = &v
	}
	return filter, nil
}

func pathProductID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeProblem(w, r, http.StatusUnprocessableEntity, "id: must be an integer")
		return 0, false
	}
	return id, true
}
