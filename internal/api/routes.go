package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

func SetupRoutes(router *mux.Router, handler *Handler) {
	router.Use(loggingMiddleware(handler.logger))
	router.Use(corsMiddleware)

	router.HandleFunc("/api/v1/health", handler.HealthCheck).Methods(http.MethodGet)

	router.HandleFunc("/api/v1/benchmarks", handler.ListBenchmarks).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/benchmarks", handler.CreateBenchmark).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/benchmarks/{id}", handler.GetBenchmark).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/benchmarks/{id}", handler.UpdateBenchmark).Methods(http.MethodPut)
	router.HandleFunc("/api/v1/benchmarks/{id}", handler.DeleteBenchmark).Methods(http.MethodDelete)
	router.HandleFunc("/api/v1/benchmarks/{id}/values", handler.GetBenchmarkValues).Methods(http.MethodGet)

	router.HandleFunc("/api/v1/events", handler.ListGlobalEvents).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/events", handler.CreateGlobalEvent).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/events/{id}", handler.GetGlobalEvent).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/events/{id}", handler.UpdateGlobalEvent).Methods(http.MethodPut)
	router.HandleFunc("/api/v1/events/{id}", handler.DeleteGlobalEvent).Methods(http.MethodDelete)

	router.HandleFunc("/api/v1/docs", handler.ListDocs).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/docs", handler.CreateDoc).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/docs/{slug}", handler.GetDoc).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/docs/{slug}", handler.UpdateDoc).Methods(http.MethodPut)
	router.HandleFunc("/api/v1/docs/{slug}", handler.DeleteDoc).Methods(http.MethodDelete)

	router.HandleFunc("/api/v1/investments", handler.ListInvestments).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/rates", handler.GetRates).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/prices", handler.GetPrices).Methods(http.MethodGet)

	router.HandleFunc("/api/v1/jobs", handler.ListJobs).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/jobs/{name}", handler.GetJob).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/jobs/{name}/run", handler.RunJob).Methods(http.MethodPost)

	router.HandleFunc("/api/v1/runs", handler.ListRuns).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/runs/{id}", handler.GetRun).Methods(http.MethodGet)

	router.HandleFunc("/api/v1/scheduler/start", handler.StartScheduler).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/scheduler/stop", handler.StopScheduler).Methods(http.MethodPost)

	router.HandleFunc("/api/v1/stream", handler.StreamEvents).Methods(http.MethodGet)
}
