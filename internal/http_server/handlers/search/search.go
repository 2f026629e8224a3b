package search

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	resp "arxivo_backend/internal/lib/api/response"
	sl "arxivo_backend/internal/lib/logger"
	"arxivo_backend/internal/models"
	"arxivo_backend/internal/search"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Request struct {
	SearchTerm string `json:"search_term"`
}

type Response struct {
	resp.Response
	Data []models.PublicProfile `json:"data"`
}

// New ищет пользователей по подстроке имени. Пустой search_term вернёт
// всех пользователей.
func New(
	log *slog.Logger,
	searchService *search.Search,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.search.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("Failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Failed to decode request"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		profiles, err := searchService.Find(ctx, req.SearchTerm)
		if err != nil {
			log.Error("failed to search users", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		ResponseOK(w, r, profiles)
	}
}

func ResponseOK(w http.ResponseWriter, r *http.Request, profiles []models.PublicProfile) {
	if profiles == nil {
		profiles = []models.PublicProfile{}
	}

	render.JSON(w, r, Response{
		Response: resp.OK(),
		Data:     profiles,
	})
}
