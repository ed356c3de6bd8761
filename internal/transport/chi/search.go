package chi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/placebook/internal/domain"
	"github.com/kailas-cloud/placebook/internal/domain/place"
	searchuc "github.com/kailas-cloud/placebook/internal/usecase/search"
)

// Searcher runs free-text place search.
type Searcher interface {
	Search(ctx context.Context, query string) (searchuc.Outcome, error)
}

type searchRequest struct {
	Query string `json:"query" validate:"required"`
}

type matchResponse struct {
	Tags   []string     `json:"tags"`
	Places []place.View `json:"places"`
}

type refusalResponse struct {
	Refusal *domain.Refusal `json:"refusal"`
}

// searchPlaces handles GET /api/places/search?query=...
func (s *Server) searchPlaces(w http.ResponseWriter, r *http.Request) {
	var query string
	if err := runtime.BindQueryParameter("form", true, true, "query", r.URL.Query(), &query); err != nil {
		s.handleError(w, r, domain.NewValidationError("query", err.Error()))
		return
	}
	s.runSearch(w, r, query)
}

// searchBody handles POST /api/search for prompts too long for a query string.
func (s *Server) searchBody(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.validateInput(req); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.runSearch(w, r, req.Query)
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, query string) {
	ctx, usage := domain.NewContextWithUsage(r.Context())

	out, err := s.search.Search(ctx, query)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	setTaggingHeaders(w, usage)
	if out.Refused() {
		writeJSON(w, http.StatusOK, refusalResponse{Refusal: out.Refusal})
		return
	}

	places := out.Places
	if places == nil {
		places = []place.View{}
	}
	writeJSON(w, http.StatusOK, matchResponse{Tags: domain.CloneStrings(out.Tags), Places: places})
}

func setTaggingHeaders(w http.ResponseWriter, usage *domain.TaggingUsage) {
	if usage == nil || !usage.Used {
		return
	}
	w.Header().Set("X-Tagging-Tokens", strconv.Itoa(usage.TotalTokens))
	if status := usage.CacheStatus(); status != "" {
		w.Header().Set("X-Tagging-Cache", status)
	}
}
