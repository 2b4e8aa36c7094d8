package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"CryptoLens/internal/board"
	"CryptoLens/internal/calculator"
	"CryptoLens/internal/model"
)

type handler struct {
	charts   Charts
	controls Controls
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("encode response", "error", err)
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (h *handler) listCharts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.charts.Charts())
}

func (h *handler) getChart(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	chart, err := h.charts.Chart(symbol)
	switch {
	case errors.Is(err, board.ErrUnknownSymbol):
		writeError(w, http.StatusNotFound, "unknown symbol "+symbol)
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	case chart == nil:
		writeError(w, http.StatusServiceUnavailable, "chart for "+symbol+" not computed yet")
	default:
		writeJSON(w, http.StatusOK, chart)
	}
}

type timeFrameRequest struct {
	TimeFrame string `json:"timeframe"`
}

// putTimeFrame switches the symbol's timeframe and returns the recomputed
// chart. A failed fetch still answers 200: the chart carries the error.
func (h *handler) putTimeFrame(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")

	var req timeFrameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	tf, err := model.ParseTimeFrame(req.TimeFrame)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.controls.SetTimeFrame(r.Context(), symbol, tf)
	if errors.Is(err, board.ErrUnknownSymbol) {
		writeError(w, http.StatusNotFound, "unknown symbol "+symbol)
		return
	}
	if err != nil {
		slog.WarnContext(r.Context(), "refresh after timeframe change failed", "symbol", symbol, "error", err)
	}
	h.getChart(w, r)
}

func (h *handler) getSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.controls.Settings())
}

// settingsRequest requires every toggle so a selection is always replaced
// as a whole.
type settingsRequest struct {
	ShowMA20     *bool `json:"show_ma20"`
	ShowMA50     *bool `json:"show_ma50"`
	ShowMA100    *bool `json:"show_ma100"`
	ShowMA200    *bool `json:"show_ma200"`
	ShowBullBand *bool `json:"show_bull_band"`
	ShowRisk     *bool `json:"show_risk"`
}

func (req settingsRequest) settings() (model.IndicatorSettings, bool) {
	fields := []*bool{req.ShowMA20, req.ShowMA50, req.ShowMA100, req.ShowMA200, req.ShowBullBand, req.ShowRisk}
	for _, f := range fields {
		if f == nil {
			return model.IndicatorSettings{}, false
		}
	}
	return model.IndicatorSettings{
		ShowMA20:     *req.ShowMA20,
		ShowMA50:     *req.ShowMA50,
		ShowMA100:    *req.ShowMA100,
		ShowMA200:    *req.ShowMA200,
		ShowBullBand: *req.ShowBullBand,
		ShowRisk:     *req.ShowRisk,
	}, true
}

func (h *handler) putSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	settings, ok := req.settings()
	if !ok {
		writeError(w, http.StatusBadRequest, "all six indicator toggles are required")
		return
	}
	if err := h.controls.SetSettings(r.Context(), settings); err != nil {
		slog.WarnContext(r.Context(), "refresh after settings change failed", "error", err)
	}
	writeJSON(w, http.StatusOK, h.controls.Settings())
}

func (h *handler) getPrices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.charts.Prices())
}

func (h *handler) getRiskBands(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, calculator.RiskBands())
}
