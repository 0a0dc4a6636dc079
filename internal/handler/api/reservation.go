package api

import (
	"errors"
	"net/http"

	"campus-booking/internal/domain/reservation"
	"campus-booking/internal/domain/user"
	reqdto "campus-booking/internal/handler/dto/request"
	resdto "campus-booking/internal/handler/dto/response"
	"campus-booking/internal/handler/httperr"
	"campus-booking/internal/handler/middleware"
	"campus-booking/internal/pkg/config"
	"campus-booking/internal/usecase/commands"
	"campus-booking/internal/usecase/queries"
	"campus-booking/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	codeValidation = "VALIDATION_ERROR"
	codeNotFound   = "NOT_FOUND"
	codeForbidden  = "FORBIDDEN"
	codeState      = "INVALID_STATE"
	codeConflict   = "EVENT_CONFLICT"
	codeUpload     = "UPLOAD_FAILED"
	codeInternal   = "INTERNAL"
)

var errMissingActor = errors.New("actor missing from context")

type ReservationHandler struct {
	cmds         commands.ReservationCommands
	q            queries.ReservationQueries
	maxFileBytes int64
}

func NewReservationHandler(cmds commands.ReservationCommands, q queries.ReservationQueries, storage config.StorageConfig) *ReservationHandler {
	return &ReservationHandler{cmds: cmds, q: q, maxFileBytes: storage.MaxBytes}
}

// @Summary Create reservation
// @Description Submit a reservation with supporting documents. It starts PENDING.
// @Tags reservations
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Event title"
// @Param resourceId formData string true "Resource id"
// @Param resourceKind formData string true "Resource kind (building, location, open-space)"
// @Param startDate formData string true "First day, YYYY-MM-DD"
// @Param endDate formData string true "Last day, YYYY-MM-DD"
// @Param startTime formData string false "Start time of day"
// @Param endTime formData string false "End time of day"
// @Param campusId formData string false "Campus id"
// @Param details formData string false "Descriptive payload as JSON"
// @Param files formData file false "Supporting documents"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errMissingActor, "Unauthorized", nil)
		return
	}
	var req reqdto.CreateReservationRequest
	if err := c.ShouldBind(&req); err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, err, codeValidation, "Invalid request", nil)
		return
	}
	in, err := req.ToInput(actor.ID, h.maxFileBytes)
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.cmds.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Location", "/reservations/"+res.ID().String())
	writeReservation(c, http.StatusCreated, res)
}

// @Summary List reservations
// @Description Paged list, newest first. Requesters only see their own reservations.
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page, starting at 1"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param status query string false "Status filter"
// @Param userId query string false "Requester filter"
// @Param campusId query string false "Campus filter"
// @Success 200 {object} resdto.ReservationListResponse
// @Failure 400 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /reservations [get]
func (h *ReservationHandler) List(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errMissingActor, "Unauthorized", nil)
		return
	}
	var query reqdto.ListReservationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, err, codeValidation, "Invalid query", nil)
		return
	}
	params, err := query.ToParams()
	if err != nil {
		writeError(c, err)
		return
	}
	page, err := h.q.List(c.Request.Context(), actor, params)
	if err != nil {
		writeError(c, err)
		return
	}
	resp, err := resdto.FromReservationPage(page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errMissingActor, "Unauthorized", nil)
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	resp, err := resdto.FromReservationView(view)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Blocked dates
// @Description Date ranges held by approved reservations on a resource
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param resourceId query string true "Resource id"
// @Param resourceKind query string true "Resource kind"
// @Success 200 {array} resdto.BlockedRangeResponse
// @Failure 400 {object} httperr.Response
// @Router /reservations/blocked-dates [get]
func (h *ReservationHandler) BlockedDates(c *gin.Context) {
	var query reqdto.BlockedDatesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, err, codeValidation, "resourceId and resourceKind are required", nil)
		return
	}
	ranges, err := h.q.BlockedRanges(c.Request.Context(), query.ResourceID, query.ResourceKind)
	if err != nil {
		writeError(c, err)
		return
	}
	resp, err := resdto.FromBlockedRanges(ranges)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Check conflicts
// @Description Advisory conflict check against approved reservations on the same resource
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ConflictCheckResponse
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id}/check-conflicts [get]
func (h *ReservationHandler) CheckConflicts(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.q.CheckConflicts(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromConflictView(view))
}

// @Summary Review reservation
// @Description Move a PENDING reservation to UNDER_REVIEW
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.ReviewReservationRequest true "Review notes"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id}/review [post]
func (h *ReservationHandler) Review(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}
	var req reqdto.ReviewReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, err, codeValidation, "Invalid request", nil)
		return
	}
	res, err := h.cmds.Review(c.Request.Context(), id, actor.ID, req.ReviewNotes)
	if err != nil {
		writeError(c, err)
		return
	}
	writeReservation(c, http.StatusOK, res)
}

// @Summary Approve reservation
// @Description Approve a PENDING or UNDER_REVIEW reservation. Fails with EVENT_CONFLICT unless forced.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.ApproveReservationRequest true "Committee decision"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/approve [post]
func (h *ReservationHandler) Approve(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}
	var req reqdto.ApproveReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, err, codeValidation, "Invalid request", nil)
		return
	}
	res, err := h.cmds.Approve(c.Request.Context(), id, actor.ID, req.ToInput())
	if err != nil {
		writeError(c, err)
		return
	}
	writeReservation(c, http.StatusOK, res)
}

// @Summary Reject reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.RejectReservationRequest true "Committee decision"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id}/reject [post]
func (h *ReservationHandler) Reject(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}
	var req reqdto.RejectReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, err, codeValidation, "Invalid request", nil)
		return
	}
	res, err := h.cmds.Reject(c.Request.Context(), id, actor.ID, req.ToInput())
	if err != nil {
		writeError(c, err)
		return
	}
	writeReservation(c, http.StatusOK, res)
}

// @Summary Cancel reservation
// @Description The requester withdraws their own PENDING reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}
	res, err := h.cmds.Cancel(c.Request.Context(), id, actor.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	writeReservation(c, http.StatusOK, res)
}

func writeReservation(c *gin.Context, status int, r *reservation.Reservation) {
	resp, err := resdto.FromReservationView(queries.NewReservationView(r))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, resp)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, err, codeValidation, "Invalid reservation ID format", nil)
		return uuid.Nil, false
	}
	return id, true
}

func actorAndID(c *gin.Context) (user.Actor, uuid.UUID, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errMissingActor, "Unauthorized", nil)
		return user.Actor{}, uuid.Nil, false
	}
	id, ok := parseID(c)
	if !ok {
		return user.Actor{}, uuid.Nil, false
	}
	return actor, id, true
}

// writeError is the single place lifecycle errors become HTTP responses.
func writeError(c *gin.Context, err error) {
	var (
		conflictErr   *reservation.ConflictError
		stateErr      *reservation.StateError
		validationErr *reservation.ValidationError
	)
	switch {
	case errors.As(err, &conflictErr):
		detail := resdto.FromConflictView(queries.NewConflictView(conflictErr.Report))
		httperr.AbortWithCode(c, http.StatusConflict, err, codeConflict,
			"Approved reservations overlap the requested dates", detail)
	case errors.As(err, &stateErr):
		httperr.AbortWithCode(c, http.StatusBadRequest, err, codeState, err.Error(),
			gin.H{"currentStatus": stateErr.Status.String()})
	case errors.As(err, &validationErr):
		httperr.AbortWithCode(c, http.StatusBadRequest, err, codeValidation, err.Error(),
			gin.H{"field": validationErr.Field, "reason": validationErr.Reason})
	case errors.Is(err, reservation.ErrValidation):
		httperr.AbortWithCode(c, http.StatusBadRequest, err, codeValidation, err.Error(), nil)
	case errors.Is(err, shared.ErrNotFound):
		httperr.AbortWithCode(c, http.StatusNotFound, err, codeNotFound, "Reservation not found", nil)
	case errors.Is(err, reservation.ErrPermission):
		httperr.AbortWithCode(c, http.StatusForbidden, err, codeForbidden, "Only the requester may do this", nil)
	case errors.Is(err, shared.ErrUpload):
		httperr.AbortWithCode(c, http.StatusBadGateway, err, codeUpload, "Document upload failed", nil)
	default:
		httperr.AbortWithCode(c, http.StatusInternalServerError, err, codeInternal, "Internal server error", nil)
	}
}
