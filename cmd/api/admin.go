package main

import (
	"errors"
	"net/http"

	"github.com/chronosphere777/chronosphere/internal/domain"
	"github.com/go-chi/chi"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AddShopRequest struct {
	ShopID         string  `json:"shop_id" validate:"required"`
	Name           string  `json:"name" validate:"required"`
	City           string  `json:"city" validate:"required"`
	Category       string  `json:"category"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	SpreadsheetURL string  `json:"spreadsheet_url"`
	PhotoURL       string  `json:"photo_url"`
	Description    string  `json:"description"`
}

// addShopHandler godoc
//
//	@Summary		Add or update a shop
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AddShopRequest	true	"Shop"
//	@Success		201		{object}	domain.Shop
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/admin/shops [post]
func (app *application) addShopHandler(w http.ResponseWriter, r *http.Request) {
	var req AddShopRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	shop := &domain.Shop{
		ShopID:         req.ShopID,
		Name:           req.Name,
		City:           req.City,
		Category:       req.Category,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		SpreadsheetURL: req.SpreadsheetURL,
		PhotoURL:       req.PhotoURL,
		Description:    req.Description,
	}

	if err := app.directoryService.AddShop(r.Context(), shop); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusCreated, shop); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteShopHandler godoc
//
//	@Summary		Delete a shop
//	@Tags			admin
//	@Produce		json
//	@Param			shop_id	path		string	true	"Shop ID"
//	@Success		200		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/admin/shops/{shop_id} [delete]
func (app *application) deleteShopHandler(w http.ResponseWriter, r *http.Request) {
	shopID := chi.URLParam(r, "shop_id")
	if shopID == "" {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	if err := app.directoryService.DeleteShop(r.Context(), shopID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			app.notFoundError(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	response := map[string]string{"status": "deleted", "shop_id": shopID}

	if err := app.jsonRespone(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createSyncTaskHandler godoc
//
//	@Summary		Enqueue a directory sync
//	@Description	Reconciles the shops collection against the main sheet in the background
//	@Tags			admin
//	@Produce		json
//	@Success		201	{object}	map[string]string
//	@Failure		500	{object}	map[string]string
//	@Router			/admin/sync [post]
func (app *application) createSyncTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID, err := app.directoryService.EnqueueSync(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := map[string]string{
		"task_id": taskID.Hex(),
		"status":  "queued",
	}

	if err := app.jsonRespone(w, http.StatusCreated, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getSyncTaskHandler godoc
//
//	@Summary		Get sync task status
//	@Tags			admin
//	@Produce		json
//	@Param			task_id	path		string	true	"Task ID"
//	@Success		200		{object}	domain.SyncTask
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Router			/admin/sync/{task_id} [get]
func (app *application) getSyncTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskIDStr := chi.URLParam(r, "task_id")
	if taskIDStr == "" {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	taskID, err := primitive.ObjectIDFromHex(taskIDStr)
	if err != nil {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	task, err := app.directoryService.GetTaskStatus(r.Context(), taskID)
	if err != nil {
		app.notFoundError(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, task); err != nil {
		app.internalServerError(w, r, err)
	}
}

// clearCacheHandler godoc
//
//	@Summary		Clear catalog caches
//	@Description	Drops cached products, freshness records and source reads
//	@Tags			admin
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		500	{object}	map[string]string
//	@Router			/admin/clear-cache [post]
func (app *application) clearCacheHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.catalogService.ClearCaches(r.Context()); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := map[string]string{"status": "cleared"}

	if err := app.jsonRespone(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}
