package handlers

import (
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/dmunteanu/shop-orders/internal/service/search"
	"github.com/dmunteanu/shop-orders/internal/util"
)

type SearchHandler struct {
	ES    *elasticsearch.Client
	Index string
}

func NewSearchHandler(es *elasticsearch.Client, index string) *SearchHandler {
	return &SearchHandler{ES: es, Index: index}
}

func (h *SearchHandler) Search(c echo.Context) error {
	if h.ES == nil {
		return respondError(c, http.StatusServiceUnavailable, "Search is not available")
	}

	q := c.QueryParam("q")
	if q == "" {
		return respondError(c, http.StatusBadRequest, "Search query is required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	total, products, err := search.Search(c.Request().Context(), h.ES, h.Index, q, from, size)
	if err != nil {
		return respondInternal(c, "Error searching products", err)
	}

	return respond(c, http.StatusOK, "Products retrieved successfully", map[string]interface{}{
		"total": total,
		"items": products,
	})
}
