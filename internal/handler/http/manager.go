package http

import (
	"net/http"
	"strconv"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
)

// ManagerHandler is the read-only view over any user's attendance. The
// flat JSON shape is kept for existing clients.
type ManagerHandler interface {
	GetAttendance(w http.ResponseWriter, r *http.Request)
}

type managerHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewManagerHandler(attendanceService attendance.AttendanceService) ManagerHandler {
	return &managerHandlerImpl{
		attendanceService: attendanceService,
	}
}

// GetAttendance implements ManagerHandler.
func (h *managerHandlerImpl) GetAttendance(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		flatError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	filter := attendance.HistoryFilter{}
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			filter.Limit = limit
		}
	}
	filter.Normalize()

	results, _, err := h.attendanceService.History(r.Context(), userID, filter)
	if err != nil {
		flatError(w, http.StatusInternalServerError, "failed to load attendance")
		return
	}

	writeFlatJSON(w, http.StatusOK, map[string]interface{}{"data": results})
}
