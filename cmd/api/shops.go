package main

import (
	"errors"
	"net/http"

	"github.com/chronosphere777/chronosphere/internal/domain"
	"github.com/go-chi/chi"
)

var ErrInvalidID = errors.New("invalid ID format")

// getCategoriesHandler godoc
//
//	@Summary		List shop categories
//	@Description	Distinct shop categories, optionally narrowed to one city
//	@Tags			directory
//	@Produce		json
//	@Param			city	path		string	false	"City name"
//	@Success		200		{object}	map[string][]string
//	@Failure		500		{object}	map[string]string
//	@Router			/categories/{city} [get]
func (app *application) getCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "city")

	categories, err := app.shopRepo.ListCategories(r.Context(), city)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := map[string][]string{"categories": categories}

	if err := app.jsonRespone(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getAllShopsHandler godoc
//
//	@Summary		List all shops
//	@Tags			directory
//	@Produce		json
//	@Success		200	{object}	map[string][]domain.Shop
//	@Failure		500	{object}	map[string]string
//	@Router			/shops [get]
func (app *application) getAllShopsHandler(w http.ResponseWriter, r *http.Request) {
	shops, err := app.shopRepo.ListAll(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := map[string][]domain.Shop{"shops": shops}

	if err := app.jsonRespone(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getShopsByCityHandler godoc
//
//	@Summary		List shops in a city
//	@Tags			directory
//	@Produce		json
//	@Param			city	path		string	true	"City name"
//	@Success		200		{object}	map[string][]domain.Shop
//	@Failure		500		{object}	map[string]string
//	@Router			/shops/{city} [get]
func (app *application) getShopsByCityHandler(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "city")

	shops, err := app.shopRepo.ListByCity(r.Context(), city)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := map[string][]domain.Shop{"shops": shops}

	if err := app.jsonRespone(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getShopHandler godoc
//
//	@Summary		Get shop info
//	@Tags			directory
//	@Produce		json
//	@Param			shop_id	path		string	true	"Shop ID"
//	@Success		200		{object}	domain.Shop
//	@Failure		404		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/shop/{shop_id} [get]
func (app *application) getShopHandler(w http.ResponseWriter, r *http.Request) {
	shopID := chi.URLParam(r, "shop_id")
	if shopID == "" {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	shop, err := app.shopRepo.GetByID(r.Context(), shopID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			app.notFoundError(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, shop); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getWholesaleShopsHandler godoc
//
//	@Summary		List wholesale shops
//	@Description	Shops from the wholesale worksheet, read live
//	@Tags			directory
//	@Produce		json
//	@Success		200	{object}	map[string][]domain.Shop
//	@Failure		502	{object}	map[string]string
//	@Router			/wholesale-shops [get]
func (app *application) getWholesaleShopsHandler(w http.ResponseWriter, r *http.Request) {
	shops, err := app.directoryService.ListWholesale(r.Context())
	if err != nil {
		app.badGatewayResponse(w, r, err)
		return
	}

	response := map[string][]domain.Shop{"shops": shops}

	if err := app.jsonRespone(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}
