package chi

import (
	"context"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/placebook/internal/domain"
	domusage "github.com/kailas-cloud/placebook/internal/domain/usage"
)

// UsageReporter builds tagging usage reports.
type UsageReporter interface {
	Report(ctx context.Context, period domusage.Period) (domusage.Report, error)
}

// usageReport handles GET /usage?period=day|month. Month is the default.
func (s *Server) usageReport(w http.ResponseWriter, r *http.Request) {
	var raw *string
	if err := runtime.BindQueryParameter("form", true, false, "period", r.URL.Query(), &raw); err != nil {
		s.handleError(w, r, domain.NewValidationError("period", err.Error()))
		return
	}
	var requested string
	if raw != nil {
		requested = *raw
	}
	period, err := domusage.ParsePeriod(requested)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	report, err := s.usage.Report(r.Context(), period)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
