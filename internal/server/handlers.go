package server

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/haskel/pricefit/internal/dataset"
)

type InfoResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Trained bool   `json:"trained"`
}

// PredictRequest is the POST /predict body.
type PredictRequest struct {
	Mileage *float64 `json:"mileage"`
}

// PredictResponse is returned by both predict endpoints.
type PredictResponse struct {
	Mileage float64 `json:"mileage"`
	Price   float64 `json:"price"`
	Theta0  float64 `json:"theta0"`
	Theta1  float64 `json:"theta1"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, InfoResponse{Name: "pricefit", Version: s.version})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Trained: s.model.State().Trained,
	})
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.model.State())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Reload(nil))
}

func (s *Server) handlePredictQuery(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("mileage")
	if raw == "" {
		s.writeError(w, http.StatusBadRequest, "mileage query parameter is required")
		return
	}

	mileage, err := dataset.ParseMileage(raw)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writePrediction(w, mileage)
}

func (s *Server) handlePredictBody(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Mileage == nil {
		s.writeError(w, http.StatusBadRequest, "mileage field is required")
		return
	}
	if !finite(*req.Mileage) {
		s.writeError(w, http.StatusBadRequest, "mileage must be a finite number")
		return
	}

	s.writePrediction(w, *req.Mileage)
}

func (s *Server) writePrediction(w http.ResponseWriter, mileage float64) {
	params := s.model.Parameters()
	price, err := params.Estimate(mileage)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, PredictResponse{
		Mileage: mileage,
		Price:   price,
		Theta0:  params.Theta0,
		Theta1:  params.Theta1,
	})
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeJSON encodes data before committing the status so an encoding
// failure still reaches the client as a 500.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		s.logger.Error("failed to encode JSON response",
			"error", err,
			"status", status,
		)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{Error: "failed to encode response"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}
