package handler

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iho/ledgerdash/internal/adapter/http/dto"
	"github.com/iho/ledgerdash/internal/adapter/http/middleware"
	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/presenter"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// PageHandler renders the HTML dashboard.
type PageHandler struct {
	service DashboardService
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(service DashboardService) *PageHandler {
	return &PageHandler{service: service}
}

type pageData struct {
	Start     string
	End       string
	Group     string
	Query     string
	Error     string
	Filters   *dto.FiltersResponse
	Dashboard *presenter.Dashboard
	Pivot     *dto.PivotResponse
}

// Index handles GET /.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := middleware.SessionIDFromContext(ctx)

	q := r.URL.Query()
	data := pageData{
		Start: q.Get(dto.ParamStart),
		End:   q.Get(dto.ParamEnd),
		Group: q.Get(dto.ParamGroup),
		Query: q.Get(dto.ParamAccount),
	}

	if err := h.load(r, sessionID, &data); err != nil {
		status := mapDomainError(err)
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			// first visit: render the upload form only
		case status == http.StatusInternalServerError:
			zerolog.Ctx(ctx).Error().Err(err).Msg("failed to render dashboard")
			data.Error = "Erro interno"
		default:
			data.Error = err.Error()
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTemplate.Execute(w, data); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to execute template")
	}
}

func (h *PageHandler) load(r *http.Request, sessionID string, data *pageData) error {
	ctx := r.Context()

	opts, err := h.service.Options(ctx, sessionID)
	if err != nil {
		return err
	}
	data.Filters = dto.FiltersFromDomain(opts)
	if data.Group == "" {
		data.Group = domain.AllGroups
	}

	filter, err := dto.ParseFilter(r)
	if err != nil {
		return err
	}

	if data.Dashboard, err = h.service.Dashboard(ctx, sessionID, filter); err != nil {
		return err
	}
	pivot, err := h.service.Pivot(ctx, sessionID, filter, true)
	if err != nil {
		return err
	}
	data.Pivot = dto.PivotFromDomain(pivot)
	return nil
}
