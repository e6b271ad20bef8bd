package main

import (
	"errors"
	"net/http"

	"github.com/chronosphere777/chronosphere/internal/domain"
	"github.com/go-chi/chi"
)

// getShopCatalogHandler godoc
//
//	@Summary		Get shop catalog
//	@Description	Cached products of a shop. Each read nudges the background refill.
//	@Tags			catalog
//	@Produce		json
//	@Param			shop_id	path		string	true	"Shop ID"
//	@Success		200		{object}	map[string]interface{}
//	@Failure		404		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/shop/{shop_id}/catalog [get]
func (app *application) getShopCatalogHandler(w http.ResponseWriter, r *http.Request) {
	shopID := chi.URLParam(r, "shop_id")
	if shopID == "" {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	defer app.catalogService.TriggerRefill()

	products, err := app.catalogService.ReadCatalog(r.Context(), shopID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			app.notFoundError(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	response := map[string]interface{}{
		"shop_id":  shopID,
		"products": products,
		"count":    len(products),
	}

	if err := app.jsonRespone(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getCacheStatusHandler godoc
//
//	@Summary		Catalog cache status
//	@Description	Stored product counts, freshness summary and source cache entries
//	@Tags			ops
//	@Produce		json
//	@Success		200	{object}	service.CacheStatus
//	@Failure		500	{object}	map[string]string
//	@Router			/cache-status [get]
func (app *application) getCacheStatusHandler(w http.ResponseWriter, r *http.Request) {
	status, err := app.catalogService.CacheStatus(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, status); err != nil {
		app.internalServerError(w, r, err)
	}
}
