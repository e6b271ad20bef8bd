package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/chronosphere777/chronosphere/internal/domain"
)

type RoadsQueryRequest struct {
	BBox  string `json:"bbox" validate:"required"`
	Query string `json:"query" validate:"required"`
}

// roadsQueryHandler godoc
//
//	@Summary		Query road geometry
//	@Description	Cached proxy in front of the Overpass mirrors
//	@Tags			roads
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RoadsQueryRequest	true	"Bounding box and Overpass query"
//	@Success		200		{object}	interface{}
//	@Failure		400		{object}	map[string]string
//	@Failure		502		{object}	map[string]string
//	@Router			/roads [post]
func (app *application) roadsQueryHandler(w http.ResponseWriter, r *http.Request) {
	var req RoadsQueryRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	result, err := app.roadsClient.Query(r.Context(), req.BBox, req.Query)
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamMalformed) || errors.Is(err, domain.ErrUpstreamStatus) {
			app.badGatewayResponse(w, r, err)
			return
		}
		if errors.Is(err, domain.ErrRateLimited) || errors.Is(err, domain.ErrUpstreamTimeout) || errors.Is(err, domain.ErrRetriesExhausted) {
			writeJsonError(w, http.StatusGatewayTimeout, err.Error())
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(result)
}

// getRoadsCacheStatsHandler godoc
//
//	@Summary		Roads cache stats
//	@Tags			roads
//	@Produce		json
//	@Param			keys	query		bool	false	"Include cache keys"
//	@Success		200		{object}	overpass.Stats
//	@Router			/roads/cache/stats [get]
func (app *application) getRoadsCacheStatsHandler(w http.ResponseWriter, r *http.Request) {
	withKeys, _ := strconv.ParseBool(r.URL.Query().Get("keys"))

	stats := app.roadsClient.CacheStats(withKeys)

	if err := app.jsonRespone(w, http.StatusOK, stats); err != nil {
		app.internalServerError(w, r, err)
	}
}

// clearRoadsCacheHandler godoc
//
//	@Summary		Clear roads cache
//	@Tags			roads
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/roads/cache/clear [post]
func (app *application) clearRoadsCacheHandler(w http.ResponseWriter, r *http.Request) {
	app.roadsClient.ClearCache()

	response := map[string]string{"status": "cleared"}

	if err := app.jsonRespone(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// roadsWarmupHandler godoc
//
//	@Summary		Warm the roads cache
//	@Description	Preloads road geometry for the densest cities
//	@Tags			roads
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Failure		500	{object}	map[string]string
//	@Router			/roads/warmup [post]
func (app *application) roadsWarmupHandler(w http.ResponseWriter, r *http.Request) {
	cities, err := app.shopRepo.CityBounds(r.Context(), 5)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	results := app.roadsClient.Warm(r.Context(), cities)

	response := map[string]interface{}{
		"cities":  len(results),
		"results": results,
	}

	if err := app.jsonRespone(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}
