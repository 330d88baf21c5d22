package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"legato/internal/domain"
	productsvc "legato/internal/service/product"
)

func (h *handlers) listProducts(c *gin.Context) {
	filter, ok := parseProductFilter(c)
	if !ok {
		return
	}
	products, err := h.deps.ProductSvc.Search(c.Request.Context(), filter)
	if err != nil {
		if h.deps.SampleFallback && !isClientError(err) {
			h.logger.Printf("products: serving sample data after error=%v", err)
			markSource(c, dataSourceSample)
			c.JSON(http.StatusOK, filterSample(filter))
			return
		}
		h.writeError(c, err)
		return
	}
	markSource(c, dataSourceLive)
	c.JSON(http.StatusOK, products)
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.deps.ProductSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) submitProduct(c *gin.Context) {
	var in productsvc.SubmitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "body", "invalid JSON body")
		return
	}
	p, err := h.deps.ProductSvc.Submit(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "productId": p.ID})
}

func (h *handlers) listCategories(c *gin.Context) {
	cats, err := h.deps.ProductSvc.Categories(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (h *handlers) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		badRequest(c, "q", "Search query is required")
		return
	}
	results, err := h.deps.ProductSvc.SearchAll(c.Request.Context(), query, c.Query("type"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "results": results})
}

// parseProductFilter reads the catalog query string. It writes a 400 and
// reports false on malformed numbers.
func parseProductFilter(c *gin.Context) (domain.ProductFilter, bool) {
	f := domain.ProductFilter{
		Category:  strings.TrimSpace(c.Query("category")),
		Condition: strings.TrimSpace(c.Query("condition")),
		Text:      strings.TrimSpace(c.Query("q")),
		Sort:      c.Query("sort"),
	}
	for _, p := range []struct {
		name string
		dst  **int64
	}{{"minPrice", &f.MinPrice}, {"maxPrice", &f.MaxPrice}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			badRequest(c, p.name, p.name+" must be a non-negative integer")
			return f, false
		}
		*p.dst = &v
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "limit", "limit must be an integer")
			return f, false
		}
		f.Limit = n
	}
	return f, true
}
