package httpapi

import (
	"fmt"
	"net/http"

	"github.com/Freeeeeet/slot_swapper/internal/model"
	"github.com/Freeeeeet/slot_swapper/internal/swap"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type swapRequestBody struct {
	MySlotID    int64 `json:"mySlotId" validate:"required,gt=0"`
	TheirSlotID int64 `json:"theirSlotId" validate:"required,gt=0"`
}

type swapResponseBody struct {
	Accepted *bool `json:"accepted" validate:"required"`
}

func (s *Server) handleSwappableSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := s.swaps.ListSwappableSlots(r.Context(), callerID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"slots": slots})
}

func (s *Server) handleSwapRequest(w http.ResponseWriter, r *http.Request) {
	var req swapRequestBody
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	proposal, err := s.swaps.ProposeSwap(r.Context(), callerID(r), req.MySlotID, req.TheirSlotID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Swap request created successfully",
		"swapRequest": proposal,
	})
}

func (s *Server) handleSwapRequests(w http.ResponseWriter, r *http.Request) {
	lists, err := s.swaps.ListSwapProposals(r.Context(), callerID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (s *Server) handleSwapResponse(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuid.Parse(chi.URLParam(r, "requestId"))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid request id", swap.ErrValidation))
		return
	}

	var req swapResponseBody
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.swaps.RespondToSwap(r.Context(), callerID(r), requestID, *req.Accepted)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	message := "Swap request rejected. Slots are available again."
	if res.Proposal.Status == model.ProposalStatusAccepted {
		message = "Swap accepted successfully. Slots have been exchanged."
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     message,
		"swapRequest": res.Proposal,
		"skipped":     res.Skipped,
	})
}
