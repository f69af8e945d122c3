// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/quickly-tally/auth"
	"github.com/danielhkuo/quickly-tally/cliparse"
	"github.com/danielhkuo/quickly-tally/db"
	"github.com/danielhkuo/quickly-tally/middleware"
	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/tally"
)

type ElectionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewElectionHandler(db *sql.DB, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{db: db, cfg: cfg}
}

// storedRun is what a handler hands back after persisting a computation
type storedRun struct {
	id         string
	adminKey   string
	inputsHash string
}

// storeRun persists one computed election. Inputs are hashed without their
// label so re-running the same ballots under a new name is detectable.
func (h *ElectionHandler) storeRun(ctx context.Context, kind, label string, inputs, outputs any) (storedRun, error) {
	hash, err := auth.HashInputs(inputs)
	if err != nil {
		return storedRun{}, fmt.Errorf("hash inputs: %w", err)
	}

	payload, err := json.Marshal(models.RunPayload{Inputs: inputs, Outputs: outputs})
	if err != nil {
		return storedRun{}, fmt.Errorf("encode payload: %w", err)
	}

	runID := auth.NewRunID()
	err = db.InsertRun(ctx, h.db, models.Run{
		ID:         runID,
		Kind:       kind,
		Label:      label,
		InputsHash: hash,
		ComputedAt: time.Now(),
		Payload:    payload,
	})
	if err != nil {
		return storedRun{}, err
	}

	slog.Info("run stored",
		"run_id", runID,
		"kind", kind,
		"inputs_hash", hash,
		"request_id", middleware.RequestID(ctx),
	)

	return storedRun{
		id:         runID,
		adminKey:   auth.GenerateAdminKey(runID, h.cfg.AdminKeySalt),
		inputsHash: hash,
	}, nil
}

// CalculateWeights handles POST /weights
// Pure computation, nothing is stored
func (h *ElectionHandler) CalculateWeights(w http.ResponseWriter, r *http.Request) {
	var req models.WeightsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	weights := tally.CalculateWeights(req.Profiles, req.Coefficients, req.Bounds)

	middleware.JSONResponse(w, http.StatusOK, models.WeightsResponse{
		Weights: weights,
	})
}

// RunRankedChoice handles POST /elections
func (h *ElectionHandler) RunRankedChoice(w http.ResponseWriter, r *http.Request) {
	var req models.RankedChoiceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if msg := validateCandidates(req.Candidates); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	results := tally.RunElection(req.Candidates, req.Ballots)

	inputs := req
	inputs.Label = ""
	run, err := h.storeRun(r.Context(), models.KindRankedChoice, req.Label, inputs, results)
	if err != nil {
		slog.Error("failed to store ranked choice run", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store run")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.RankedChoiceResponse{
		RunID:      run.id,
		AdminKey:   run.adminKey,
		InputsHash: run.inputsHash,
		Results:    results,
	})
}

// RunWeightedRankedChoice handles POST /elections/weighted
// Each ballot counts with its voter's composite weight
func (h *ElectionHandler) RunWeightedRankedChoice(w http.ResponseWriter, r *http.Request) {
	var req models.WeightedRankedChoiceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if msg := validateCandidates(req.Candidates); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	weights := tally.CalculateWeights(req.Profiles, req.Coefficients, req.Bounds)
	results := tally.RunWeightedElection(req.Candidates, tally.WeighBallots(req.Ballots, weights))

	inputs := req
	inputs.Label = ""
	outputs := struct {
		Results models.Results     `json:"results"`
		Weights map[string]float64 `json:"weights"`
	}{results, weights}

	run, err := h.storeRun(r.Context(), models.KindWeightedRankedChoice, req.Label, inputs, outputs)
	if err != nil {
		slog.Error("failed to store weighted ranked choice run", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store run")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.RankedChoiceResponse{
		RunID:      run.id,
		AdminKey:   run.adminKey,
		InputsHash: run.inputsHash,
		Results:    results,
		Weights:    weights,
	})
}

// RunReferendum handles POST /referendums
func (h *ElectionHandler) RunReferendum(w http.ResponseWriter, r *http.Request) {
	var req models.ReferendumRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Threshold < 0 || req.Threshold > 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "threshold must be between 0 and 1")
		return
	}

	result := tally.RunWeightedYesNoElection(
		req.Profiles,
		req.YesVoterIDs,
		req.NoVoterIDs,
		req.Coefficients,
		req.Threshold,
		req.Bounds,
	)

	inputs := req
	inputs.Label = ""
	run, err := h.storeRun(r.Context(), models.KindReferendum, req.Label, inputs, result)
	if err != nil {
		slog.Error("failed to store referendum run", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store run")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.ReferendumResponse{
		RunID:      run.id,
		AdminKey:   run.adminKey,
		InputsHash: run.inputsHash,
		Result:     result,
	})
}

// validateCandidates returns a client-facing message, or "" when the
// candidate list is usable
func validateCandidates(candidates []models.Candidate) string {
	if len(candidates) == 0 {
		return "at least one candidate is required"
	}
	for _, c := range candidates {
		if c.ID == "" {
			return "candidate id is required"
		}
	}
	return ""
}
