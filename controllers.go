package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/eventplanner/eventplanner-api/internal/auth"
	"github.com/eventplanner/eventplanner-api/internal/config"
	"github.com/eventplanner/eventplanner-api/internal/service"
	"github.com/eventplanner/eventplanner-api/internal/store"
	"github.com/gin-gonic/gin"
)

// API holds the handlers and their collaborators.
type API struct {
	accounts     *service.AuthService
	events       *service.EventService
	participants *service.ParticipantService
	tokens       *auth.TokenIssuer
	store        *store.Store
	logger       *log.Logger
}

// NewAPI wires the services on top of st.
func NewAPI(cfg *config.Config, st *store.Store, l *log.Logger) *API {
	tokens := auth.NewTokenIssuer(cfg.JWT)
	return &API{
		accounts:     service.NewAuthService(st, tokens, auth.NewPasswordHasher(), l),
		events:       service.NewEventService(st, l),
		participants: service.NewParticipantService(st, l),
		tokens:       tokens,
		store:        st,
		logger:       l,
	}
}

// -----------------------------
// Helper functions
// -----------------------------

func jsonError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"error": msg})
}

// getUserIDFromContext returns the user id set by AuthMiddleware or
// OptionalAuth. Anonymous requests yield 0.
func getUserIDFromContext(c *gin.Context) (uint, bool) {
	uid, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	id, ok := uid.(uint)
	return id, ok
}

func eventIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		jsonError(c, http.StatusBadRequest, "invalid event id")
		return 0, false
	}
	return uint(id), true
}

// writeError maps a service error to its HTTP status. Unknown errors are
// logged and reported as 500 without details.
func (api *API) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		jsonError(c, http.StatusUnauthorized, errorMessage(err))
	case errors.Is(err, service.ErrNotAuthorized):
		jsonError(c, http.StatusForbidden, errorMessage(err))
	case errors.Is(err, service.ErrNotFound):
		jsonError(c, http.StatusNotFound, errorMessage(err))
	case errors.Is(err, service.ErrConflict):
		jsonError(c, http.StatusConflict, errorMessage(err))
	case errors.Is(err, service.ErrInvalid):
		jsonError(c, http.StatusBadRequest, errorMessage(err))
	default:
		api.logger.Error("request failed", "err", err, "route", c.FullPath(), "request_id", c.GetString(requestIDKey))
		jsonError(c, http.StatusInternalServerError, "internal server error")
	}
}

// errorMessage drops the kind prefix ("not found: event not found").
func errorMessage(err error) string {
	msg := err.Error()
	if _, detail, ok := strings.Cut(msg, ": "); ok {
		return detail
	}
	return msg
}

func (api *API) Health(c *gin.Context) {
	if err := api.store.Ping(c.Request.Context()); err != nil {
		api.logger.Warn("health check failed", "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// -----------------------------
// Events
// -----------------------------

type CreateEventRequest struct {
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	Date          string   `json:"date" binding:"required"` // expect YYYY-MM-DD or RFC3339
	Time          string   `json:"time" binding:"required"` // expect HH:MM
	Private       *bool    `json:"private"`
	IsPublic      *bool    `json:"isPublic"`
	IsPrivate     *bool    `json:"isPrivate"`
	InvitedEmails []string `json:"invitedEmails"` // invited together with the creation
}

// UpdateEventRequest is a partial update: absent fields are left untouched.
type UpdateEventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Private     *bool   `json:"private"`
	IsPublic    *bool   `json:"isPublic"`
	IsPrivate   *bool   `json:"isPrivate"`
}

// GET /api/events?keyword=&start_date=&end_date=&role=organizer|participant|invited
type SearchRequest struct {
	Keyword   string `form:"keyword"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Role      string `form:"role"`
}

func (api *API) CreateEvent(c *gin.Context) {
	userID, _ := getUserIDFromContext(c)

	var body CreateEventRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	vis, err := service.ResolveVisibility(body.Private, body.IsPublic, body.IsPrivate)
	if err != nil {
		api.writeError(c, err)
		return
	}

	in := service.EventInput{
		Title:         body.Title,
		Description:   body.Description,
		Date:          body.Date,
		Time:          body.Time,
		InvitedEmails: body.InvitedEmails,
	}
	if vis != nil {
		in.Visibility = *vis
	}

	ev, err := api.events.Create(c.Request.Context(), in, userID)
	if err != nil {
		api.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

func (api *API) ListEvents(c *gin.Context) {
	userID, _ := getUserIDFromContext(c)

	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid query: "+err.Error())
		return
	}

	events, err := api.events.List(c.Request.Context(), userID, service.EventFilter{
		Keyword: strings.TrimSpace(req.Keyword),
		From:    req.StartDate,
		To:      req.EndDate,
		Role:    req.Role,
	})
	if err != nil {
		api.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (api *API) GetOrganizedEvents(c *gin.Context) {
	userID, _ := getUserIDFromContext(c)
	events, err := api.events.Organized(c.Request.Context(), userID)
	if err != nil {
		api.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (api *API) GetInvitedEvents(c *gin.Context) {
	userID, _ := getUserIDFromContext(c)
	events, err := api.events.Invited(c.Request.Context(), userID)
	if err != nil {
		api.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (api *API) GetEvent(c *gin.Context) {
	userID, _ := getUserIDFromContext(c)
	id, ok := eventIDParam(c)
	if !ok {
		return
	}

	ev, err := api.events.Get(c.Request.Context(), id, userID)
	if err != nil {
		api.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (api *API) UpdateEvent(c *gin.Context) {
	userID, _ := getUserIDFromContext(c)
	id, ok := eventIDParam(c)
	if !ok {
		return
	}

	var body UpdateEventRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	vis, err := service.ResolveVisibility(body.Private, body.IsPublic, body.IsPrivate)
	if err != nil {
		api.writeError(c, err)
		return
	}

	ev, err := api.events.Update(c.Request.Context(), id, service.EventUpdate{
		Title:       body.Title,
		Description: body.Description,
		Date:        body.Date,
		Time:        body.Time,
		Visibility:  vis,
	}, userID)
	if err != nil {
		api.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (api *API) DeleteEvent(c *gin.Context) {
	userID, _ := getUserIDFromContext(c)
	id, ok := eventIDParam(c)
	if !ok {
		return
	}

	if err := api.events.Delete(c.Request.Context(), id, userID); err != nil {
		api.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}

// -----------------------------
// Participants
// -----------------------------

type InviteRequest struct {
	Email string `json:"email" binding:"required"`
	// EventID is taken from URL param :id
}

type RsvpRequest struct {
	Status string `json:"status" binding:"required"` // pending / yes / no / maybe
}

func (api *API) InviteParticipant(c *gin.Context) {
	userID, _ := getUserIDFromContext(c)
	id, ok := eventIDParam(c)
	if !ok {
		return
	}

	var body InviteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	p, err := api.participants.Invite(c.Request.Context(), id, body.Email, userID)
	if err != nil {
		api.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// JoinEvent handles POST /api/events/:id/join[?inviteEmail=].
func (api *API) JoinEvent(c *gin.Context) {
	userID, _ := getUserIDFromContext(c)
	id, ok := eventIDParam(c)
	if !ok {
		return
	}

	p, err := api.participants.Join(c.Request.Context(), id, userID, strings.TrimSpace(c.Query("inviteEmail")))
	if err != nil {
		api.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (api *API) UpdateRsvp(c *gin.Context) {
	userID, _ := getUserIDFromContext(c)
	id, ok := eventIDParam(c)
	if !ok {
		return
	}

	var body RsvpRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	p, err := api.participants.UpdateRsvp(c.Request.Context(), id, userID, body.Status)
	if err != nil {
		api.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (api *API) GetParticipants(c *gin.Context) {
	userID, _ := getUserIDFromContext(c)
	id, ok := eventIDParam(c)
	if !ok {
		return
	}

	participants, err := api.participants.List(c.Request.Context(), id, userID)
	if err != nil {
		api.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, participants)
}
