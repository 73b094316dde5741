package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"occupancy-server/engine"
	"occupancy-server/models"
	services "occupancy-server/service"
	"occupancy-server/util"
)

const (
	FACILITY_PATH_VAR = "facility"
	CHART_PATH_VAR    = "chart"
	FAMILY_QUERY_ARG  = "family"
	OPTION_QUERY_ARG  = "option"
)

// ChartProvider is the part of the chart service the handler needs.
type ChartProvider interface {
	ListFacilities() []models.Facility
	ListCharts() []engine.ChartInfo
	GetBundle(ctx context.Context, facilityID, chart string) (engine.Bundle, error)
}

type ChartHandler struct {
	charts ChartProvider
}

func NewChartHandler(charts ChartProvider) *ChartHandler {
	return &ChartHandler{charts: charts}
}

// Ping handles GET /ping
func (h *ChartHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "pong"})
}

// ListFacilities handles GET /v1/facilities
func (h *ChartHandler) ListFacilities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.charts.ListFacilities())
}

// ListCharts handles GET /v1/charts
func (h *ChartHandler) ListCharts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.charts.ListCharts())
}

// GetBundle handles GET /v1/facilities/{facility}/charts/{chart}
func (h *ChartHandler) GetBundle(w http.ResponseWriter, r *http.Request) {
	bundle, ok := h.loadBundle(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

// PlotBundle handles GET /v1/facilities/{facility}/charts/{chart}/plot
// expects optional ?family={name}&option={index(int)}
func (h *ChartHandler) PlotBundle(w http.ResponseWriter, r *http.Request) {
	bundle, ok := h.loadBundle(w, r)
	if !ok {
		return
	}

	sel, err := parseSelection(bundle, r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := util.PlotBundle(w, bundle, sel); err != nil {
		h.writeError(w, err)
	}
}

func (h *ChartHandler) loadBundle(w http.ResponseWriter, r *http.Request) (engine.Bundle, bool) {
	vars := mux.Vars(r)
	bundle, err := h.charts.GetBundle(r.Context(), vars[FACILITY_PATH_VAR], vars[CHART_PATH_VAR])
	if err != nil {
		h.writeError(w, err)
		return engine.Bundle{}, false
	}
	return bundle, true
}

func (h *ChartHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrUnknownFacility), errors.Is(err, engine.ErrUnknownChart):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, util.ErrOptionOutOfRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("[ChartHandler] Request failed: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// parseSelection maps the family name and option index onto a plot selection.
func parseSelection(bundle engine.Bundle, vals url.Values) (util.PlotSelection, error) {
	sel := util.PlotSelection{Family: -1, Option: -1}

	if name := vals.Get(FAMILY_QUERY_ARG); name != "" {
		sel.Family = bundle.FamilyByName(name)
		if sel.Family < 0 && bundle.State == engine.StateReady {
			return sel, fmt.Errorf("Invalid argument %s: no family %q", FAMILY_QUERY_ARG, name)
		}
	}

	if s := vals.Get(OPTION_QUERY_ARG); s != "" {
		option, err := strconv.Atoi(s)
		if err != nil || option < 0 {
			return sel, fmt.Errorf("Invalid argument %s", OPTION_QUERY_ARG)
		}
		sel.Option = option
	}
	return sel, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Println("Error encoding response:", err)
	}
}
