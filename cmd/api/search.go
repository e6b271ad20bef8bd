package main

import (
	"errors"
	"net/http"
	"strings"
)

// searchProductsHandler godoc
//
//	@Summary		Search products
//	@Description	Multi-word search over cached catalogs joined with shop info
//	@Tags			catalog
//	@Produce		json
//	@Param			q		query		string	true	"Search query, 2+ characters"
//	@Param			sort	query		string	false	"relevance, price_asc or price_desc"
//	@Success		200		{object}	map[string]interface{}
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/search-products [get]
func (app *application) searchProductsHandler(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len([]rune(query)) < 2 {
		app.badRequestResponse(w, r, errors.New("query too short, minimum 2 characters"))
		return
	}

	sortBy := r.URL.Query().Get("sort")
	if sortBy == "" {
		sortBy = "relevance"
	}

	results, err := app.searchService.Search(r.Context(), query, sortBy)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := map[string]interface{}{
		"query":   query,
		"sort":    sortBy,
		"count":   len(results),
		"results": results,
	}

	if err := app.jsonRespone(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}
