package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/profile"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/handler/http/response"
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// AdminHandler covers the admin attendance override surface and user
// provisioning. The attendance and create-user endpoints keep their
// original flat JSON shapes for existing clients; the user management
// endpoints use the standard envelope.
type AdminHandler interface {
	GetAttendance(w http.ResponseWriter, r *http.Request)
	UpsertAttendance(w http.ResponseWriter, r *http.Request)
	DeleteAttendance(w http.ResponseWriter, r *http.Request)
	CreateUser(w http.ResponseWriter, r *http.Request)

	ListUsers(w http.ResponseWriter, r *http.Request)
	UpdateUserRole(w http.ResponseWriter, r *http.Request)
	SetUserActive(w http.ResponseWriter, r *http.Request)
}

type adminHandlerImpl struct {
	attendanceService attendance.AttendanceService
	userService       profile.UserService
}

func NewAdminHandler(attendanceService attendance.AttendanceService, userService profile.UserService) AdminHandler {
	return &adminHandlerImpl{
		attendanceService: attendanceService,
		userService:       userService,
	}
}

func writeFlatJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func flatError(w http.ResponseWriter, statusCode int, message string) {
	writeFlatJSON(w, statusCode, map[string]interface{}{"error": message})
}

// GetAttendance implements AdminHandler.
func (h *adminHandlerImpl) GetAttendance(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	dateStr := r.URL.Query().Get("date")
	if userID == "" || dateStr == "" {
		flatError(w, http.StatusBadRequest, "user_id and date are required")
		return
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		flatError(w, http.StatusBadRequest, "date must use the YYYY-MM-DD format")
		return
	}

	result, err := h.attendanceService.AdminGet(r.Context(), userID, date)
	if err != nil {
		flatError(w, http.StatusInternalServerError, "failed to load attendance")
		return
	}

	writeFlatJSON(w, http.StatusOK, map[string]interface{}{"data": result})
}

// UpsertAttendance implements AdminHandler.
func (h *adminHandlerImpl) UpsertAttendance(w http.ResponseWriter, r *http.Request) {
	var req attendance.AdminUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		flatError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.attendanceService.AdminUpsert(r.Context(), req)
	if err != nil {
		flatError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeFlatJSON(w, http.StatusOK, map[string]interface{}{"data": result})
}

// DeleteAttendance implements AdminHandler.
func (h *adminHandlerImpl) DeleteAttendance(w http.ResponseWriter, r *http.Request) {
	var req attendance.AdminDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		flatError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.attendanceService.AdminDelete(r.Context(), req); err != nil {
		flatError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeFlatJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// CreateUser implements AdminHandler.
func (h *adminHandlerImpl) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req user.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		flatError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.userService.CreateUser(r.Context(), req)
	if err != nil {
		var validationErrs validator.ValidationErrors
		switch {
		case errors.Is(err, user.ErrEmailExists):
			flatError(w, http.StatusBadRequest, "email already registered")
		case errors.As(err, &validationErrs):
			flatError(w, http.StatusBadRequest, validationErrs.Error())
		default:
			flatError(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	writeFlatJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"user_id": result.UserID,
	})
}

// ListUsers implements AdminHandler.
func (h *adminHandlerImpl) ListUsers(w http.ResponseWriter, r *http.Request) {
	var filter profile.ListFilter

	if v := r.URL.Query().Get("role"); v != "" {
		filter.Role = &v
	}
	if v := r.URL.Query().Get("is_active"); v != "" {
		active := v == "true"
		filter.IsActive = &active
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			filter.Limit = limit
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil {
			filter.Offset = offset
		}
	}

	profiles, total, err := h.userService.ListUsers(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	results := make([]profile.ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		results = append(results, profile.ToResponse(p))
	}

	response.SuccessWithMeta(w, results, &response.Meta{
		Limit:      filter.Limit,
		Offset:     filter.Offset,
		TotalItems: total,
	})
}

// UpdateUserRole implements AdminHandler.
func (h *adminHandlerImpl) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req user.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.userService.UpdateRole(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Role updated", profile.ToResponse(updated))
}

// SetUserActive implements AdminHandler.
func (h *adminHandlerImpl) SetUserActive(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsActive == nil {
		response.BadRequest(w, "is_active is required", nil)
		return
	}

	updated, err := h.userService.SetActive(r.Context(), userID, *req.IsActive)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Active flag updated", profile.ToResponse(updated))
}
