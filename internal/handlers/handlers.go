// Package handlers exposes the planning services over HTTP with echo.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/LimHyeonGyu/wayferecicd/internal/service"
	"github.com/LimHyeonGyu/wayferecicd/pkg/core"
)

// Handler carries the services behind the HTTP surface.
type Handler struct {
	Markers   *service.MarkerService
	Members   *service.MemberService
	Rooms     *service.RoomService
	Schedules *service.ScheduleService
	Joins     *service.MemberRoomService
	Logger    zerolog.Logger
}

// Register wires all routes and middleware into e.
func (h *Handler) Register(e *echo.Echo, allowedOrigins []string) {
	e.HideBanner = true
	e.Use(middleware.Recover())
	if len(allowedOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: allowedOrigins,
		}))
	}

	e.GET("/healthcheck", h.healthcheck)

	api := e.Group("/api")
	api.POST("/markers", h.createMarker)
	api.GET("/markers/:id", h.getMarker)
	api.PUT("/markers/:id/confirm", h.confirmMarker)
	api.DELETE("/markers/:id", h.deleteMarker)

	api.GET("/schedules/:id/markers", h.scheduleMarkers)
	api.GET("/schedules/:id/bounds", h.scheduleBounds)

	api.POST("/rooms", h.createRoom)
	api.GET("/rooms/:id", h.getRoom)
	api.GET("/rooms/:id/markers", h.roomMarkers)
	api.POST("/rooms/:id/join", h.joinRoom)
	api.GET("/rooms/:id/members", h.roomMembers)
	api.DELETE("/rooms/:id/members/:email", h.leaveRoom)
	api.POST("/rooms/:id/schedules", h.createSchedule)
	api.GET("/rooms/:id/schedules", h.roomSchedules)

	api.POST("/members", h.registerMember)
	api.GET("/members/:email", h.getMember)
	api.GET("/members/:email/rooms", h.memberRooms)
}

// errorResponse is the JSON body for every failed request.
type errorResponse struct {
	Code    core.ErrorCode `json:"code"`
	Message string         `json:"message"`
}

// fail converts a service error into an HTTP response.
func (h *Handler) fail(c echo.Context, err error) error {
	var domainErr *core.Error
	if !errors.As(err, &domainErr) {
		h.Logger.Error().Err(err).Str("path", c.Path()).Msg("Request failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{
			Code:    "INTERNAL",
			Message: "internal error",
		})
	}

	status := http.StatusInternalServerError
	switch domainErr.Code {
	case core.CodeNotFound, core.CodeMembershipNotFound:
		status = http.StatusNotFound
	case core.CodeDeleteFail, core.CodeMaxLimitExceeded, core.CodeConfirmedLimitExceeded,
		core.CodeColorExhausted, core.CodeValidation:
		status = http.StatusBadRequest
	case core.CodeItemDuplicate:
		status = http.StatusConflict
	case core.CodeUpstreamFailure:
		status = http.StatusBadGateway
	}
	return c.JSON(status, errorResponse{Code: domainErr.Code, Message: domainErr.Message})
}

func (h *Handler) healthcheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, core.NewError(core.CodeValidation, "invalid id")
	}
	return uint(id), nil
}

type createMarkerRequest struct {
	Email      string  `json:"email"`
	ScheduleID uint    `json:"scheduleId"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
}

func (h *Handler) createMarker(c echo.Context) error {
	var req createMarkerRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, core.NewError(core.CodeValidation, "malformed request body"))
	}

	m, err := h.Markers.Create(c.Request().Context(), core.Marker{
		Email:      req.Email,
		ScheduleID: req.ScheduleID,
		Lat:        req.Lat,
		Lng:        req.Lng,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) getMarker(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}
	m, err := h.Markers.Read(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

type confirmMarkerRequest struct {
	Confirmed bool `json:"confirmed"`
}

func (h *Handler) confirmMarker(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req confirmMarkerRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, core.NewError(core.CodeValidation, "malformed request body"))
	}

	m, err := h.Markers.UpdateConfirmation(c.Request().Context(), id, req.Confirmed)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) deleteMarker(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.Markers.Delete(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) scheduleMarkers(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}
	markers, err := h.Markers.ListBySchedule(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, markers)
}

func (h *Handler) scheduleBounds(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}
	bounds, err := h.Markers.ScheduleBounds(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, bounds)
}

func (h *Handler) roomMarkers(c echo.Context) error {
	byRoom, err := h.Markers.ListByRoom(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, byRoom)
}

type createRoomRequest struct {
	Email   string `json:"email"`
	Title   string `json:"title"`
	Country string `json:"country"`
}

func (h *Handler) createRoom(c echo.Context) error {
	var req createRoomRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, core.NewError(core.CodeValidation, "malformed request body"))
	}
	room, err := h.Rooms.Create(c.Request().Context(), req.Email, req.Title, req.Country)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, room)
}

func (h *Handler) getRoom(c echo.Context) error {
	room, err := h.Rooms.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, room)
}

type joinRoomRequest struct {
	Email string `json:"email"`
}

func (h *Handler) joinRoom(c echo.Context) error {
	var req joinRoomRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, core.NewError(core.CodeValidation, "malformed request body"))
	}
	mr, err := h.Joins.Join(c.Request().Context(), req.Email, c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, mr)
}

func (h *Handler) roomMembers(c echo.Context) error {
	memberships, err := h.Joins.ListByRoom(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, memberships)
}

func (h *Handler) leaveRoom(c echo.Context) error {
	err := h.Joins.Leave(c.Request().Context(), c.Param("email"), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type createScheduleRequest struct {
	Name     string `json:"name"`
	PlanDate string `json:"planDate"`
}

func (h *Handler) createSchedule(c echo.Context) error {
	var req createScheduleRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, core.NewError(core.CodeValidation, "malformed request body"))
	}
	planDate, err := time.Parse("2006-01-02", req.PlanDate)
	if err != nil {
		return h.fail(c, core.NewError(core.CodeValidation, "planDate must be YYYY-MM-DD"))
	}

	sched, err := h.Schedules.Create(c.Request().Context(), c.Param("id"), req.Name, planDate)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, sched)
}

func (h *Handler) roomSchedules(c echo.Context) error {
	schedules, err := h.Schedules.ListByRoom(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, schedules)
}

type registerMemberRequest struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

func (h *Handler) registerMember(c echo.Context) error {
	var req registerMemberRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, core.NewError(core.CodeValidation, "malformed request body"))
	}
	m, err := h.Members.Register(c.Request().Context(), req.Email, req.Nickname)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) getMember(c echo.Context) error {
	m, err := h.Members.Get(c.Request().Context(), c.Param("email"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) memberRooms(c echo.Context) error {
	rooms, err := h.Rooms.ListForMember(c.Request().Context(), c.Param("email"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, rooms)
}
