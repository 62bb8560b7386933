package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gartstein/phonebook/internal/phonebook/metrics"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// APIPrefix is the alternate mount point for every resource route.
const APIPrefix = "/api"

const healthTimeout = 2 * time.Second

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter wires the company and person routes at the root and under
// APIPrefix, plus /metrics and /healthz.
func NewRouter(companies *CompanyHandler, persons *PersonHandler, m *metrics.Metrics, store Pinger, logger *zap.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, loggingMiddleware(logger.Named("http")), metricsMiddleware(m))

	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", healthHandler(store)).Methods(http.MethodGet)

	registerResources(r.PathPrefix(APIPrefix).Subrouter(), companies, persons)
	registerResources(r, companies, persons)
	return r
}

func registerResources(r *mux.Router, companies *CompanyHandler, persons *PersonHandler) {
	r.HandleFunc("/companies", companies.ListCompanies).Methods(http.MethodGet)
	r.HandleFunc("/companies/all", companies.ListCompanies).Methods(http.MethodGet)
	r.HandleFunc("/companies/{id:[0-9]+}", companies.GetCompany).Methods(http.MethodGet)
	r.HandleFunc("/companies", companies.CreateCompany).Methods(http.MethodPost)

	r.HandleFunc("/persons", persons.ListPersons).Methods(http.MethodGet)
	r.HandleFunc("/persons/search", persons.ListPersons).Methods(http.MethodGet)
	r.HandleFunc("/persons/random", persons.RandomPerson).Methods(http.MethodGet)
	r.HandleFunc("/persons/{id:[0-9]+}", persons.GetPerson).Methods(http.MethodGet)
	r.HandleFunc("/persons", persons.CreatePerson).Methods(http.MethodPost)
	r.HandleFunc("/persons", persons.UpdatePerson).Methods(http.MethodPut)
	r.HandleFunc("/persons/{id:[0-9]+}", persons.UpdatePerson).Methods(http.MethodPut)
	r.HandleFunc("/persons", persons.DeletePerson).Methods(http.MethodDelete)
	r.HandleFunc("/persons/{id:[0-9]+}", persons.DeletePerson).Methods(http.MethodDelete)
}

func healthHandler(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
