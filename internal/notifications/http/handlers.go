package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nepfy/nepfy-backend/internal/api/respond"
	"github.com/nepfy/nepfy-backend/internal/auth"
	"github.com/nepfy/nepfy-backend/internal/notifications/domain"
	"github.com/nepfy/nepfy-backend/internal/notifications/service"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register attaches the routes a signed-in user calls for their own
// notifications.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.GET("/unread-count", h.unreadCount)
	rg.POST("", h.create)
	rg.POST("/read-all", h.markAllRead)
	rg.POST("/:id/read", h.markRead)
	rg.DELETE("/:id", h.delete)
}

// RegisterAdmin attaches the route used to notify any user. It must sit
// behind the admin API key.
func (h *Handler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.POST("", h.createForUser)
}

func (h *Handler) list(c *gin.Context) {
	f := domain.ListFilter{
		UnreadOnly: c.Query("unread") == "true",
		Limit:      queryInt(c, "limit", domain.DefaultLimit),
		Offset:     queryInt(c, "offset", 0),
	}
	items, err := h.svc.List(c.Request.Context(), auth.UserFirebaseUID(c), f)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, items)
}

func (h *Handler) unreadCount(c *gin.Context) {
	n, err := h.svc.UnreadCount(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"count": n})
}

func (h *Handler) create(c *gin.Context) {
	var in domain.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.BadRequest(c, "invalid body: %v", err)
		return
	}
	in.UserID = auth.UserFirebaseUID(c)
	h.store(c, in)
}

func (h *Handler) createForUser(c *gin.Context) {
	var in domain.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.BadRequest(c, "invalid body: %v", err)
		return
	}
	h.store(c, in)
}

func (h *Handler) store(c *gin.Context, in domain.CreateInput) {
	n, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusCreated, n)
}

func (h *Handler) markRead(c *gin.Context) {
	id, ok := notificationID(c)
	if !ok {
		return
	}
	n, err := h.svc.MarkRead(c.Request.Context(), auth.UserFirebaseUID(c), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, n)
}

func (h *Handler) markAllRead(c *gin.Context) {
	n, err := h.svc.MarkAllRead(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"updated": n})
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := notificationID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), auth.UserFirebaseUID(c), id); err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, nil)
}

func notificationID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respond.BadRequest(c, "invalid notification id")
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}
