package card

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/verte-zerg/typecard/internal/logging"
	"github.com/verte-zerg/typecard/internal/model"
)

// Handler serves rendered cards over HTTP.
type Handler struct {
	renderer *Renderer
	logger   *slog.Logger
}

// NewHandler creates a card handler.
func NewHandler(renderer *Renderer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{renderer: renderer, logger: logger}
}

// Routes sets up the card routes relative to the mount point.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Image)
	return r
}

// Image renders the card selected by the state, wpm and accuracy query
// parameters.
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	params := model.CardParamsFromQuery(r.URL.Query())

	var buf bytes.Buffer
	if err := h.renderer.WritePNG(&buf, params); err != nil {
		h.logger.Error("card render failed", "variant", Select(params).String(), "err", err)
		http.Error(w, "failed to render card", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Debug("failed to write card", "err", err)
	}
}
