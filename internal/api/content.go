package api

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/HamptonNorth/portfolio-60-sub003/pkg/types"
	"github.com/gorilla/mux"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.handleError(w, fmt.Errorf("invalid id: %s", mux.Vars(r)["id"]), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *Handler) ListBenchmarks(w http.ResponseWriter, r *http.Request) {
	benchmarks, err := h.store.ListBenchmarks(r.Context())
	if err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"benchmarks": benchmarks})
}

func (h *Handler) GetBenchmark(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	benchmark, err := h.store.GetBenchmark(r.Context(), id)
	if err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, benchmark)
}

func (h *Handler) CreateBenchmark(w http.ResponseWriter, r *http.Request) {
	var b types.Benchmark
	if !h.readJSON(w, r, &b) {
		return
	}
	if b.Symbol == "" || b.Name == "" {
		h.handleError(w, fmt.Errorf("symbol and name are required"), http.StatusBadRequest)
		return
	}
	if b.Currency == "" {
		b.Currency = h.config.Scrape.BaseCurrency
	}

	if err := h.store.CreateBenchmark(r.Context(), &b); err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusCreated, b)
}

func (h *Handler) UpdateBenchmark(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var b types.Benchmark
	if !h.readJSON(w, r, &b) {
		return
	}
	if b.Symbol == "" || b.Name == "" {
		h.handleError(w, fmt.Errorf("symbol and name are required"), http.StatusBadRequest)
		return
	}
	b.ID = id

	if err := h.store.UpdateBenchmark(r.Context(), &b); err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, b)
}

func (h *Handler) DeleteBenchmark(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteBenchmark(r.Context(), id); err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) ListGlobalEvents(w http.ResponseWriter, r *http.Request) {
	globalEvents, err := h.store.ListGlobalEvents(r.Context())
	if err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"events": globalEvents})
}

func (h *Handler) GetGlobalEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	event, err := h.store.GetGlobalEvent(r.Context(), id)
	if err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, event)
}

func validateEvent(e *types.GlobalEvent) error {
	if e.Title == "" {
		return fmt.Errorf("title is required")
	}
	if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD: %q", e.Date)
	}
	return nil
}

func (h *Handler) CreateGlobalEvent(w http.ResponseWriter, r *http.Request) {
	var e types.GlobalEvent
	if !h.readJSON(w, r, &e) {
		return
	}
	if err := validateEvent(&e); err != nil {
		h.handleError(w, err, http.StatusBadRequest)
		return
	}

	if err := h.store.CreateGlobalEvent(r.Context(), &e); err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusCreated, e)
}

func (h *Handler) UpdateGlobalEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var e types.GlobalEvent
	if !h.readJSON(w, r, &e) {
		return
	}
	if err := validateEvent(&e); err != nil {
		h.handleError(w, err, http.StatusBadRequest)
		return
	}
	e.ID = id

	if err := h.store.UpdateGlobalEvent(r.Context(), &e); err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, e)
}

func (h *Handler) DeleteGlobalEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteGlobalEvent(r.Context(), id); err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) ListDocs(w http.ResponseWriter, r *http.Request) {
	docs, err := h.store.ListDocs(r.Context())
	if err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"docs": docs})
}

func (h *Handler) GetDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.GetDoc(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) CreateDoc(w http.ResponseWriter, r *http.Request) {
	var d types.Doc
	if !h.readJSON(w, r, &d) {
		return
	}
	h.putDoc(w, r, &d)
}

func (h *Handler) UpdateDoc(w http.ResponseWriter, r *http.Request) {
	var d types.Doc
	if !h.readJSON(w, r, &d) {
		return
	}
	d.Slug = mux.Vars(r)["slug"]
	h.putDoc(w, r, &d)
}

func (h *Handler) putDoc(w http.ResponseWriter, r *http.Request, d *types.Doc) {
	if !slugPattern.MatchString(d.Slug) {
		h.handleError(w, fmt.Errorf("invalid slug: %q", d.Slug), http.StatusBadRequest)
		return
	}
	if d.Title == "" {
		h.handleError(w, fmt.Errorf("title is required"), http.StatusBadRequest)
		return
	}

	if err := h.store.PutDoc(r.Context(), d); err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, d)
}

func (h *Handler) DeleteDoc(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteDoc(r.Context(), mux.Vars(r)["slug"]); err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) ListInvestments(w http.ResponseWriter, r *http.Request) {
	investments, err := h.store.ListInvestments(r.Context())
	if err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"investments": investments})
}
