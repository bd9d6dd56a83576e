package handlers

import (
	"net/http"

	"github.com/palpitebox/bolao-system/services"
)

// ResolutionHandler takes the administrative result-entry calls: the
// final scoreline of a match and the finalization of a quiz round.
type ResolutionHandler struct {
	resolutionService services.ResolutionService
}

func NewResolutionHandler(resolutionService services.ResolutionService) *ResolutionHandler {
	return &ResolutionHandler{resolutionService: resolutionService}
}

type submitResultRequest struct {
	HomeScore int `json:"home_score"`
	AwayScore int `json:"away_score"`
}

func (h *ResolutionHandler) SubmitMatchResultHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input submitResultRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	changeSet, err := h.resolutionService.SubmitMatchResult(r.Context(), matchID, input.HomeScore, input.AwayScore)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"resolution": changeSet}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ResolutionHandler) FinalizeQuizRoundHandler(w http.ResponseWriter, r *http.Request) {
	roundID, err := getIDFromURL(r, "roundID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	changeSet, err := h.resolutionService.FinalizeQuizRound(r.Context(), roundID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"finalization": changeSet}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
