package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"fintrack/internal/aggregate"
	"fintrack/internal/core"
	"fintrack/internal/dashboard"
	"fintrack/internal/log"
	"fintrack/internal/transfer"
)

type pageData struct {
	View     dashboard.View
	Charts   chartData
	Ranges   []string
	Wildcard string
	// Form holds the current state as query values to refill the controls.
	Form url.Values
}

// chartData is embedded in the page as JSON for the chart script.
type chartData struct {
	Cashflow  dashboard.LineChart     `json:"cashflow"`
	Breakdown dashboard.DoughnutChart `json:"breakdown"`
}

func (s *Server) buildView(r *http.Request) dashboard.View {
	st := dashboard.ParseState(r.URL.Query())
	return dashboard.Build(s.store.Snapshot(), st, s.now())
}

// handleIndex renders the dashboard page for the state in the query string.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	view := s.buildView(r)
	data := pageData{
		View:     view,
		Charts:   chartData{Cashflow: view.Cashflow, Breakdown: view.Breakdown},
		Ranges:   dashboard.Ranges,
		Wildcard: aggregate.Wildcard,
		Form:     view.State.Values(),
	}
	s.render(w, r, "dashboard.html", data)
}

// render executes the named template. A missing template is logged and a
// placeholder is written in its place.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	logger := log.FromContext(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if s.templates == nil || s.templates.Lookup(name) == nil {
		logger.ErrorContext(r.Context(), "Render target missing",
			log.FieldOperation, log.OpRender, "template", name, log.FieldError, core.ErrMissingElement)
		_, _ = w.Write([]byte(`<div class="placeholder">Dashboard unavailable</div>`))
		return
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		logger.ErrorContext(r.Context(), "Template execution failed", "template", name, log.FieldError, err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(s.buildView(r)).Write(w)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	view := s.buildView(r)
	NewJSONResponse().Data(map[string]any{
		"rows":  view.Rows,
		"total": view.Total,
	}).Write(w)
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := NewRequestBodyParser(r, maxFormBytes)
	if err := p.Parse(); err != nil {
		BadRequestError("Invalid request body").Write(w)
		return
	}

	tx, err := core.ValidateForm(p.TransactionForm(), s.now())
	if err != nil {
		var verrs core.ValidationErrors
		if errors.As(err, &verrs) {
			UnprocessableEntityError("Please correct the highlighted fields", verrs.Fields()).Write(w)
			return
		}
		BadRequestError(err.Error()).Write(w)
		return
	}

	added, err := s.store.Add(ctx, tx)
	if err != nil {
		var verr *core.ValidationError
		if errors.As(err, &verr) {
			UnprocessableEntityError("Please correct the highlighted fields", map[string]string{verr.Field: verr.Message}).Write(w)
			return
		}
		log.FromContext(ctx).ErrorContext(ctx, "Transaction add failed", log.FieldOperation, log.OpAdd, log.FieldError, err)
		InternalServerError("Could not save the transaction").Write(w)
		return
	}

	NewJSONResponse().
		Status(http.StatusCreated).
		Success(fmt.Sprintf("%s added", added.Name)).
		Data(added).
		Write(w)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := transfer.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	var buf bytes.Buffer
	if err := transfer.Write(&buf, format, s.store.Snapshot()); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Export failed", log.FieldOperation, log.OpExport, log.FieldError, err)
		InternalServerError("Export failed").Write(w)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, transfer.Filename(format, s.now())))
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	payload, err := readImportPayload(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	txs, err := transfer.DecodeJSON(payload)
	if err != nil {
		var pe *core.ParseError
		if errors.As(err, &pe) {
			logger.WarnContext(ctx, "Import rejected", log.FieldOperation, log.OpImport, log.FieldError, err)
			BadRequestError("Import failed: " + pe.Error()).Write(w)
			return
		}
		InternalServerError("Import failed").Write(w)
		return
	}

	if err := s.store.Replace(ctx, txs); err != nil {
		logger.ErrorContext(ctx, "Import could not be stored", log.FieldOperation, log.OpImport, log.FieldError, err)
		InternalServerError("Import could not be saved").Write(w)
		return
	}

	NewJSONResponse().
		Success(fmt.Sprintf("Imported %d transactions", len(txs))).
		Data(map[string]int{"count": len(txs)}).
		Write(w)
}

// handleSeed replaces the store with the demo data. When the demo data cannot
// be fetched the store is left as it is.
func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	txs, err := s.seed.Fetch(ctx)
	if err != nil {
		logger.WarnContext(ctx, "Demo data unavailable", log.FieldOperation, log.OpSeed, log.FieldSource, s.seed.Location, log.FieldError, err)
		ErrorResponse(http.StatusBadGateway, "Demo data is unavailable").Write(w)
		return
	}
	if err := s.store.Replace(ctx, txs); err != nil {
		logger.ErrorContext(ctx, "Demo data could not be stored", log.FieldOperation, log.OpSeed, log.FieldError, err)
		InternalServerError("Demo data could not be saved").Write(w)
		return
	}

	NewJSONResponse().
		Success(fmt.Sprintf("Loaded %d demo transactions", len(txs))).
		Data(map[string]int{"count": len(txs)}).
		Write(w)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.store.Clear(ctx); err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Reset failed", log.FieldOperation, log.OpClear, log.FieldError, err)
		InternalServerError("Could not clear transactions").Write(w)
		return
	}
	NewJSONResponse().Success("All transactions cleared").Data(map[string]int{"count": 0}).Write(w)
}
