package handlers

import (
	"net/http"

	"github.com/palpitebox/bolao-system/services"
)

type JackpotHandler struct {
	jackpotService services.JackpotService
}

func NewJackpotHandler(jackpotService services.JackpotService) *JackpotHandler {
	return &JackpotHandler{jackpotService: jackpotService}
}

func (h *JackpotHandler) GetCurrentJackpotHandler(w http.ResponseWriter, r *http.Request) {
	competitionID, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	state, err := h.jackpotService.Current(r.Context(), competitionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"jackpot": state, "pot": state.Pot()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *JackpotHandler) GetJackpotHistoryHandler(w http.ResponseWriter, r *http.Request) {
	competitionID, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	states, err := h.jackpotService.History(r.Context(), competitionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"history": states}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type addStakeRequest struct {
	AmountCentavos int64 `json:"amount_centavos"`
}

func (h *JackpotHandler) AddStakeHandler(w http.ResponseWriter, r *http.Request) {
	competitionID, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input addStakeRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	state, err := h.jackpotService.AddStake(r.Context(), competitionID, input.AmountCentavos)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"jackpot": state, "pot": state.Pot()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
