// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-tally/middleware"
	"github.com/danielhkuo/quickly-tally/scenario"
)

// MaxScenarioBytes caps POST /scenarios bodies
const MaxScenarioBytes = 1 << 20

type ScenarioHandler struct{}

func NewScenarioHandler() *ScenarioHandler {
	return &ScenarioHandler{}
}

// RunScenario handles POST /scenarios
// Body is a YAML scenario; the outcome is returned but not stored
func (h *ScenarioHandler) RunScenario(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, MaxScenarioBytes)
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, "Scenario too large")
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	s, err := scenario.Parse(bytes.NewReader(data))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := scenario.Run(r.Context(), s)
	if err != nil {
		slog.Error("scenario evaluation failed", "error", err, "request_id", middleware.RequestID(r.Context()))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to evaluate scenario")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, out)
}
