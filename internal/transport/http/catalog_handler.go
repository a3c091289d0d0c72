package http

import (
	"errors"
	"fmt"
	"net/http"

	"cultural-quiz-service/internal/app"
	"cultural-quiz-service/internal/domain"
	"cultural-quiz-service/internal/platform/logger"
	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the read-only catalog endpoints and session snapshots.
type CatalogHandler struct {
	catalog  *app.CatalogService
	sessions app.SessionRepository
	log      *logger.Logger
}

func NewCatalogHandler(catalog *app.CatalogService, sessions app.SessionRepository, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, sessions: sessions, log: log}
}

type countryPayload struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GET /api/countries
func (h *CatalogHandler) Countries(c *gin.Context) {
	countries, err := h.catalog.Countries(c.Request.Context())
	if err != nil {
		h.log.Error("list countries failed", "error", err)
		respondError(c, http.StatusInternalServerError, "catalog_unavailable", err)
		return
	}
	out := make([]countryPayload, 0, len(countries))
	for _, country := range countries {
		out = append(out, countryPayload{ID: country.ID, Name: country.Name})
	}
	respondOK(c, out)
}

// GET /api/guide/:country
func (h *CatalogHandler) Guide(c *gin.Context) {
	name := c.Param("country")
	guide, err := h.catalog.Guide(c.Request.Context(), name)
	switch {
	case errors.Is(err, domain.ErrCountryNotFound):
		respondError(c, http.StatusNotFound, "country_not_found",
			fmt.Errorf("country '%s' not found", app.NormalizeCountryName(name)))
	case err != nil:
		h.log.Error("load guide failed", "country", name, "error", err)
		respondError(c, http.StatusInternalServerError, "catalog_unavailable", err)
	default:
		respondOK(c, guide)
	}
}

// GET /api/quiz/:country. Unknown countries get an empty array.
func (h *CatalogHandler) Quiz(c *gin.Context) {
	name := c.Param("country")
	questions, err := h.catalog.Questions(c.Request.Context(), name)
	switch {
	case errors.Is(err, domain.ErrMalformedQuestion):
		h.log.Error("malformed quiz data", "country", name, "error", err)
		respondError(c, http.StatusInternalServerError, "malformed_quiz", err)
	case err != nil:
		h.log.Error("load quiz failed", "country", name, "error", err)
		respondError(c, http.StatusInternalServerError, "quiz_unavailable", err)
	default:
		respondOK(c, questions)
	}
}

// GET /api/sessions/:id
func (h *CatalogHandler) Session(c *gin.Context) {
	session, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "session_not_found", domain.ErrSessionNotFound)
		return
	}
	respondOK(c, session.Snapshot())
}
