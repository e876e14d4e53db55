package server

import "net/http"

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleInfo)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /model", s.handleModel)
	mux.HandleFunc("POST /model/reload", s.handleReload)
	mux.HandleFunc("GET /predict", s.handlePredictQuery)
	mux.HandleFunc("POST /predict", s.handlePredictBody)

	return mux
}
