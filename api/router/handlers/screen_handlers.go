package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"estateadmin/backend"
	"estateadmin/core"
	"estateadmin/logger"
	"estateadmin/models"

	"github.com/go-chi/chi/v5"
)

type screenSummary struct {
	Key           string                `json:"key"`
	Label         string                `json:"label"`
	Description   string                `json:"description"`
	Endpoint      string                `json:"endpoint"`
	Columns       []models.Column       `json:"columns"`
	FilterOptions []models.FilterOption `json:"filter_options,omitempty"`
	RowsPerPage   int                   `json:"rows_per_page"`
}

// ListScreensHandler lists the configured list screens.
func ListScreensHandler(w http.ResponseWriter, r *http.Request) {
	screens := deps.Screens.All()
	out := make([]screenSummary, 0, len(screens))
	for _, s := range screens {
		out = append(out, screenSummary{
			Key:           s.Key,
			Label:         s.Label,
			Description:   s.Description,
			Endpoint:      s.Endpoint,
			Columns:       s.Columns,
			FilterOptions: s.FilterOptions,
			RowsPerPage:   s.NewViewState().RowsPerPage,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// screenRows loads the collection for a screen. Stale rows from a failed refetch
// are still served for network and server failures; a rejected token or a rate
// limit is always reported.
func screenRows(w http.ResponseWriter, r *http.Request, handler string, screen core.Screen) ([]models.Row, bool) {
	rows, err := deps.Store.Rows(r.Context(), mustSession(r), screen.Endpoint)
	if err != nil {
		if rows == nil || !servesStale(err) {
			writeFailure(w, r, handler, err)
			return nil, false
		}
		logger.Warn("%s: serving cached %s after refetch failed: %v", handler, screen.Key, err)
		w.Header().Set("X-Data-Stale", "true")
	}
	return rows, true
}

func lookupScreen(w http.ResponseWriter, r *http.Request) (core.Screen, bool) {
	key := chi.URLParam(r, "screen")
	screen, ok := deps.Screens.Get(key)
	if !ok {
		if wantsHTML(r) {
			http.NotFound(w, r)
		} else {
			writeError(w, http.StatusNotFound, "Unknown screen: "+key)
		}
		return core.Screen{}, false
	}
	return screen, true
}

// GetScreenHandler returns one computed page of a screen as JSON.
func GetScreenHandler(w http.ResponseWriter, r *http.Request) {
	screen, ok := lookupScreen(w, r)
	if !ok {
		return
	}
	rows, ok := screenRows(w, r, "GetScreenHandler", screen)
	if !ok {
		return
	}
	state := screen.ViewStateFromQuery(r.URL.Query())
	result := screen.Compute(rows, state)

	writeJSON(w, http.StatusOK, models.ScreenResponse{
		Screen:        screen.Key,
		Label:         screen.Label,
		Description:   screen.Description,
		Columns:       core.VisibleColumns(screen.Columns, state),
		FilterOptions: screen.FilterOptions,
		State:         state,
		Page:          state.CurrentPage,
		PerPage:       state.RowsPerPage,
		TotalRecords:  len(rows),
		TotalMatched:  result.TotalMatched,
		TotalPages:    result.TotalPages,
		Records:       result.PageRows,
	})
}

// ScreenPageHandler renders a list screen as HTML.
func ScreenPageHandler(w http.ResponseWriter, r *http.Request) {
	screen, ok := lookupScreen(w, r)
	if !ok {
		return
	}
	rows, ok := screenRows(w, r, "ScreenPageHandler", screen)
	if !ok {
		return
	}
	state := screen.ViewStateFromQuery(r.URL.Query())
	result := screen.Compute(rows, state)

	render(w, screenPage, http.StatusOK, pageData{
		Title:     screen.Label,
		Nav:       navigation(),
		Screen:    screen,
		State:     state,
		Columns:   core.VisibleColumns(screen.Columns, state),
		Rows:      result.PageRows,
		Pager:     core.NewPager(state, result),
		PageSizes: pageSizes,
		PageURL:   pageLinker(r.URL.Path, r.URL.Query()),
	})
}

// DashboardPageHandler renders the landing page: the entity counts and searchable
// tables of inquiries and appointments. The appointments table reads its own
// query parameters under the "appt_" prefix. A backend 401 on any of the three
// reads ends the session.
func DashboardPageHandler(w http.ResponseWriter, r *http.Request) {
	sess := mustSession(r)
	data := pageData{Title: "Dashboard", Nav: navigation(), PageSizes: pageSizes}

	counts, err := deps.Store.API().Counts(r.Context(), sess)
	if err != nil {
		if backend.IsKind(err, backend.KindUnauthorized) {
			writeFailure(w, r, "DashboardPageHandler", err)
			return
		}
		logger.Error("DashboardPageHandler: loading counts: %v", err)
		data.Error = core.ErrorMessage(err)
	}
	data.Counts = counts

	q := r.URL.Query()
	if screen, ok := deps.Screens.Get(core.InquiriesEndpoint); ok {
		table, err := dashboardTable(r, sess, screen, q, "")
		if backend.IsKind(err, backend.KindUnauthorized) {
			writeFailure(w, r, "DashboardPageHandler", err)
			return
		}
		if err != nil {
			data.Error = core.ErrorMessage(err)
		}
		data.Screen, data.State, data.Columns = table.Screen, table.State, table.Columns
		data.Rows, data.Pager, data.PageURL = table.Rows, table.Pager, table.PageURL
	}
	if screen, ok := deps.Screens.Get(core.AppointmentsEndpoint); ok {
		table, err := dashboardTable(r, sess, screen, q, appointmentsParamPrefix)
		if backend.IsKind(err, backend.KindUnauthorized) {
			writeFailure(w, r, "DashboardPageHandler", err)
			return
		}
		if err != nil && data.Error == "" {
			data.Error = core.ErrorMessage(err)
		}
		data.Appointments = &table
	}
	render(w, dashboardPage, http.StatusOK, data)
}

const appointmentsParamPrefix = "appt_"

// dashboardTable builds one overview table from the query parameters carrying
// prefix. Rows cached before a failed refetch are kept only when servesStale
// allows it.
func dashboardTable(r *http.Request, sess models.Session, screen core.Screen, q url.Values, prefix string) (pageData, error) {
	rows, err := deps.Store.Rows(r.Context(), sess, screen.Endpoint)
	if err != nil {
		logger.Error("DashboardPageHandler: loading %s: %v", screen.Key, err)
		if !servesStale(err) {
			rows = nil
		}
	}
	state := screen.ViewStateFromQuery(unprefixed(q, prefix))
	result := core.ComputeVisibleRows(rows, screen.Columns, state, core.DashboardSearchFields, nil)
	return pageData{
		Screen:  screen,
		State:   state,
		Columns: core.VisibleColumns(screen.Columns, state),
		Rows:    result.PageRows,
		Pager:   core.NewPager(state, result),
		PageURL: pageParamLinker(r.URL.Path, q, prefix+"page"),
	}, err
}

func unprefixed(q url.Values, prefix string) url.Values {
	if prefix == "" {
		return q
	}
	out := url.Values{}
	for k, v := range q {
		if strings.HasPrefix(k, prefix) {
			out[strings.TrimPrefix(k, prefix)] = v
		}
	}
	return out
}

// DashboardCountsHandler returns the entity totals shown on the dashboard.
func DashboardCountsHandler(w http.ResponseWriter, r *http.Request) {
	counts, err := deps.Store.API().Counts(r.Context(), mustSession(r))
	if err != nil {
		writeFailure(w, r, "DashboardCountsHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// GroupedCertificatesHandler returns certificates grouped by the month they were
// issued, newest first.
func GroupedCertificatesHandler(w http.ResponseWriter, r *http.Request) {
	screen, ok := deps.Screens.Get("certificates")
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown screen: certificates")
		return
	}
	rows, ok := screenRows(w, r, "GroupedCertificatesHandler", screen)
	if !ok {
		return
	}
	state := screen.ViewStateFromQuery(r.URL.Query())
	state.CurrentPage, state.RowsPerPage = 1, len(rows)+1
	matched := screen.Compute(rows, state).PageRows
	writeJSON(w, http.StatusOK, core.GroupByMonth(matched, "date"))
}
