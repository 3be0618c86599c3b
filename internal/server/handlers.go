package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"chainscore/internal/explorer"
	"chainscore/internal/lending"
	"chainscore/internal/version"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	wallet := q.Get("wallet")
	if wallet == "" {
		writeError(w, http.StatusBadRequest, "missing wallet parameter")
		return
	}
	windowDays, err := intParam(q, "window_days")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	offsetDays, err := intParam(q, "offset_days")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.svc.Features(r.Context(), wallet, q.Get("profile"), windowDays, offsetDays)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	wallet := q.Get("wallet")
	if wallet == "" {
		writeError(w, http.StatusBadRequest, "missing wallet parameter")
		return
	}
	windowDays, err := intParam(q, "window_days")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.svc.Score(r.Context(), wallet, q.Get("profile"), windowDays)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	walletA, walletB := q.Get("wallet_a"), q.Get("wallet_b")
	if walletA == "" || walletB == "" {
		writeError(w, http.StatusBadRequest, "missing wallet_a or wallet_b parameter")
		return
	}
	windowDays, err := intParam(q, "window_days")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.svc.Compare(r.Context(), walletA, walletB, q.Get("profile"), windowDays)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTrajectory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	wallet := q.Get("wallet")
	if wallet == "" {
		writeError(w, http.StatusBadRequest, "missing wallet parameter")
		return
	}
	windowDays, err := intParam(q, "window_days")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.svc.Trajectory(r.Context(), wallet, q.Get("profile"), windowDays)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// intParam parses an optional non-negative integer query parameter; absent
// means zero, which the service replaces with its default.
func intParam(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return v, nil
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, explorer.ErrInvalidAddress), errors.Is(err, lending.ErrUnknownProfile):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	default:
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
