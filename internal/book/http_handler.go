package book

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bookquery/internal/httpx"

	"github.com/rs/zerolog"
)

type HTTPHandler struct {
	runner *QueryRunner
}

func NewHTTPHandler(runner *QueryRunner) *HTTPHandler {
	return &HTTPHandler{runner: runner}
}

// Register mounts the read routes on mux and the write routes behind admin.
func (h *HTTPHandler) Register(mux *http.ServeMux, admin func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /books/genre/{genre}", h.FindByGenre)
	mux.HandleFunc("GET /books/author/{author}", h.FindByAuthor)
	mux.HandleFunc("GET /books/published-after/{year}", h.FindPublishedAfter)
	mux.HandleFunc("GET /books/in-stock", h.FilterInStock)
	mux.HandleFunc("GET /books/listing", h.ProjectAll)
	mux.HandleFunc("GET /books/by-price", h.SortByPrice)
	mux.HandleFunc("GET /books/page", h.Paginate)
	mux.HandleFunc("GET /stats/genres/average-price", h.AveragePriceByGenre)
	mux.HandleFunc("GET /stats/authors/top", h.TopAuthor)
	mux.HandleFunc("GET /stats/decades", h.CountByDecade)
	mux.HandleFunc("GET /admin/explain", h.Explain)

	mux.Handle("PATCH /books/{title}/price", admin(http.HandlerFunc(h.UpdatePrice)))
	mux.Handle("DELETE /books/{title}", admin(http.HandlerFunc(h.DeleteByTitle)))
	mux.Handle("POST /admin/indexes", admin(http.HandlerFunc(h.EnsureIndexes)))
}

// FindByGenre handles GET /books/genre/{genre}
func (h *HTTPHandler) FindByGenre(w http.ResponseWriter, r *http.Request) {
	titles, err := h.runner.FindByGenre(r.Context(), r.PathValue("genre"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, titles, nil)
}

// FindByAuthor handles GET /books/author/{author}
func (h *HTTPHandler) FindByAuthor(w http.ResponseWriter, r *http.Request) {
	titles, err := h.runner.FindByAuthor(r.Context(), r.PathValue("author"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, titles, nil)
}

// FindPublishedAfter handles GET /books/published-after/{year}
func (h *HTTPHandler) FindPublishedAfter(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, "INVALID_ARGUMENT", "year must be an integer", nil)
		return
	}
	books, err := h.runner.FindPublishedAfter(r.Context(), year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, books, nil)
}

// FilterInStock handles GET /books/in-stock?after=&limit=
func (h *HTTPHandler) FilterInStock(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	after, err := intParam(query.Get("after"), 0)
	if err != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, "INVALID_ARGUMENT", "after must be an integer", nil)
		return
	}
	limit, err := intParam(query.Get("limit"), 5)
	if err != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, "INVALID_ARGUMENT", "limit must be an integer", nil)
		return
	}

	books, err := h.runner.FilterInStockRecentCheap(r.Context(), after, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, books, nil)
}

// ProjectAll handles GET /books/listing
func (h *HTTPHandler) ProjectAll(w http.ResponseWriter, r *http.Request) {
	books, err := h.runner.ProjectAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, books, nil)
}

// SortByPrice handles GET /books/by-price?dir=asc|desc
func (h *HTTPHandler) SortByPrice(w http.ResponseWriter, r *http.Request) {
	dir, err := ParseDirection(r.URL.Query().Get("dir"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	books, err := h.runner.SortByPrice(r.Context(), dir)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, books, nil)
}

// Paginate handles GET /books/page?page=&size=&sort=
// page is 1-based on the wire.
func (h *HTTPHandler) Paginate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(query.Get("size"))
	if size <= 0 || size > 100 {
		size = 5
	}
	p := Page{Index: page - 1, Size: size, SortBy: query.Get("sort")}

	books, err := h.runner.Paginate(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, books, map[string]any{
		"page":      page,
		"page_size": size,
	})
}

// AveragePriceByGenre handles GET /stats/genres/average-price
func (h *HTTPHandler) AveragePriceByGenre(w http.ResponseWriter, r *http.Request) {
	avgs, err := h.runner.AveragePriceByGenre(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, avgs, nil)
}

// TopAuthor handles GET /stats/authors/top
func (h *HTTPHandler) TopAuthor(w http.ResponseWriter, r *http.Request) {
	top, ok, err := h.runner.TopAuthorByCount(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		httpx.JSONSuccessWithRequest(r, w, []AuthorCount{}, nil)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, []AuthorCount{top}, nil)
}

// CountByDecade handles GET /stats/decades
func (h *HTTPHandler) CountByDecade(w http.ResponseWriter, r *http.Request) {
	decades, err := h.runner.CountByDecade(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, decades, nil)
}

// Explain handles GET /admin/explain?title=&author=&genre=&year=&after=&in_stock=
func (h *HTTPHandler) Explain(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	plan, err := h.runner.ExplainPlan(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, plan, nil)
}

type updatePriceRequest struct {
	Price *float64 `json:"price"`
}

// UpdatePrice handles PATCH /books/{title}/price
func (h *HTTPHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	var req updatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Price == nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, "INVALID_ARGUMENT", "body must be {\"price\": number}", nil)
		return
	}
	modified, err := h.runner.UpdatePrice(r.Context(), r.PathValue("title"), *req.Price)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, map[string]int64{"modified": modified}, nil)
}

// DeleteByTitle handles DELETE /books/{title}
func (h *HTTPHandler) DeleteByTitle(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.runner.DeleteByTitle(r.Context(), r.PathValue("title"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, map[string]int64{"deleted": deleted}, nil)
}

// EnsureIndexes handles POST /admin/indexes
func (h *HTTPHandler) EnsureIndexes(w http.ResponseWriter, r *http.Request) {
	report, err := h.runner.EnsureIndexes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, report, nil)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error(), nil)
	case errors.Is(err, ErrConnectivity):
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		httpx.JSONErrorWithRequest(r, w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Storage unavailable", nil)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		httpx.JSONErrorWithRequest(r, w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

func intParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

func filterFromQuery(r *http.Request) (Filter, error) {
	query := r.URL.Query()
	var f Filter
	if v := query.Get("title"); v != "" {
		f.Title = ptr(v)
	}
	if v := query.Get("author"); v != "" {
		f.Author = ptr(v)
	}
	if v := query.Get("genre"); v != "" {
		f.Genre = ptr(v)
	}
	if v := query.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return Filter{}, invalidf("year must be an integer")
		}
		f.PublishedYear = &year
	}
	if v := query.Get("after"); v != "" {
		after, err := strconv.Atoi(v)
		if err != nil {
			return Filter{}, invalidf("after must be an integer")
		}
		f.PublishedAfter = &after
	}
	if v := query.Get("in_stock"); v != "" {
		inStock, err := strconv.ParseBool(v)
		if err != nil {
			return Filter{}, invalidf("in_stock must be a boolean")
		}
		f.InStock = &inStock
	}
	return f, nil
}
