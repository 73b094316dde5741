package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"occupancy-server/metrics"
)

// ChartRoutes is implemented by handlers.ChartHandler.
type ChartRoutes interface {
	Ping(w http.ResponseWriter, r *http.Request)
	ListFacilities(w http.ResponseWriter, r *http.Request)
	ListCharts(w http.ResponseWriter, r *http.Request)
	GetBundle(w http.ResponseWriter, r *http.Request)
	PlotBundle(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	chartHandler ChartRoutes
	metrics      *metrics.Metrics
	router       *mux.Router
}

// NewRouter creates a router with the app’s routes. m may be nil.
func NewRouter(
	chartHandler ChartRoutes,
	m *metrics.Metrics,
	router *mux.Router) *Router {
	return &Router{
		chartHandler: chartHandler,
		metrics:      m,
		router:       router,
	}
}

func (r *Router) RegisterRoutes() {
	r.handle("/ping", r.chartHandler.Ping)

	r.handle("/v1/facilities", r.chartHandler.ListFacilities)
	r.handle("/v1/charts", r.chartHandler.ListCharts)

	// expects optional ?family={name}&option={index(int)} on the plot route
	r.handle("/v1/facilities/{facility}/charts/{chart}", r.chartHandler.GetBundle)
	r.handle("/v1/facilities/{facility}/charts/{chart}/plot", r.chartHandler.PlotBundle)

	r.router.Handle("/metrics", r.metrics.Handler()).Methods("GET")
}

func (r *Router) handle(route string, fn http.HandlerFunc) {
	r.router.Handle(route, r.metrics.WrapHandler(route, fn)).Methods("GET")
}
