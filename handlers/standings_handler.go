package handlers

import (
	"net/http"

	"github.com/palpitebox/bolao-system/services"
)

type StandingsHandler struct {
	standingsService services.StandingsService
	scheduleService  services.ScheduleService
}

func NewStandingsHandler(standingsService services.StandingsService, scheduleService services.ScheduleService) *StandingsHandler {
	return &StandingsHandler{standingsService: standingsService, scheduleService: scheduleService}
}

func (h *StandingsHandler) GetGroupTableHandler(w http.ResponseWriter, r *http.Request) {
	groupID, err := getIDFromURL(r, "groupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	table, err := h.standingsService.GetTable(r.Context(), groupID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": table}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecomputeGroupTableHandler rebuilds the snapshot from the finished
// matches, for use after an administrative correction.
func (h *StandingsHandler) RecomputeGroupTableHandler(w http.ResponseWriter, r *http.Request) {
	groupID, err := getIDFromURL(r, "groupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	table, err := h.standingsService.Recompute(r.Context(), groupID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": table}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingsHandler) GetGroupQuotaHandler(w http.ResponseWriter, r *http.Request) {
	groupID, err := getIDFromURL(r, "groupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	quota, err := h.scheduleService.QuotaForGroup(r.Context(), groupID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"quota": quota}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
