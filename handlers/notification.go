package handlers

import (
	"context"
	"errors"
	"net/http"

	"finzo/models"
	"finzo/services/audit"
	"finzo/services/notification"
	"finzo/services/transaction"
	"finzo/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UndoResolver is the audit surface the notification endpoints need.
type UndoResolver interface {
	Diff(ctx context.Context, notificationID string) (*models.DiffView, error)
	Undo(ctx context.Context, notificationID string) (*models.UndoResult, error)
}

// NotificationHandler serves the notification log and its undo actions.
type NotificationHandler struct {
	Service  notification.NotificationService
	Resolver UndoResolver
}

func NewNotificationHandler(svc notification.NotificationService, resolver UndoResolver) *NotificationHandler {
	return &NotificationHandler{Service: svc, Resolver: resolver}
}

type setReadRequest struct {
	ID   string `json:"id" binding:"required"`
	Read *bool  `json:"read" binding:"required"`
}

// ListNotificationsHandler returns the log newest first, optionally filtered.
func (h *NotificationHandler) ListNotificationsHandler(c *gin.Context) {
	filter, err := models.ParseNotificationFilter(c.Query("filter"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid filter", err.Error())
		return
	}
	list, err := h.Service.List(c.Request.Context(), filter)
	if err != nil {
		getLogger(c).Error("Failed to list notifications", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch notifications", err.Error())
		return
	}
	if list == nil {
		list = []models.Notification{}
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *NotificationHandler) CreateNotificationHandler(c *gin.Context) {
	var draft models.NotificationDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	n, err := h.Service.Create(c.Request.Context(), draft)
	if err != nil {
		if errors.Is(err, models.ErrInvalidNotification) {
			utils.JSONError(c, http.StatusBadRequest, "Invalid notification", err.Error())
			return
		}
		getLogger(c).Error("Failed to create notification", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to create notification", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": n})
}

func (h *NotificationHandler) SetReadHandler(c *gin.Context) {
	var req setReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	n, err := h.Service.SetRead(c.Request.Context(), req.ID, *req.Read)
	if err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Notification not found", "")
			return
		}
		getLogger(c).Error("Failed to update notification", zap.String("id", req.ID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update notification", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": n})
}

// DeleteNotificationsHandler removes one notification when ?id= is given and
// clears the log otherwise. Deleting an id that is already gone succeeds.
func (h *NotificationHandler) DeleteNotificationsHandler(c *gin.Context) {
	ctx := c.Request.Context()
	var err error
	if id := c.Query("id"); id != "" {
		err = h.Service.Delete(ctx, id)
		if errors.Is(err, notification.ErrNotificationNotFound) {
			err = nil
		}
	} else {
		err = h.Service.DeleteAll(ctx)
	}
	if err != nil {
		getLogger(c).Error("Failed to delete notifications", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete notification", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"success": true}})
}

func (h *NotificationHandler) MarkAllReadHandler(c *gin.Context) {
	n, err := h.Service.MarkAllRead(c.Request.Context())
	if err != nil {
		getLogger(c).Error("Failed to mark notifications read", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update notifications", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"updated": n}})
}

func (h *NotificationHandler) UnreadCountHandler(c *gin.Context) {
	n, err := h.Service.UnreadCount(c.Request.Context())
	if err != nil {
		getLogger(c).Error("Failed to count unread notifications", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to count notifications", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"count": n}})
}

func (h *NotificationHandler) DiffHandler(c *gin.Context) {
	view, err := h.Resolver.Diff(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.auditError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (h *NotificationHandler) UndoHandler(c *gin.Context) {
	res, err := h.Resolver.Undo(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, transaction.ErrNoChanges) {
			c.JSON(http.StatusOK, gin.H{"status": "unchanged"})
			return
		}
		h.auditError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *NotificationHandler) auditError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, notification.ErrNotificationNotFound):
		utils.JSONError(c, http.StatusNotFound, "Notification not found", "")
	case errors.Is(err, transaction.ErrTransactionNotFound):
		utils.JSONError(c, http.StatusNotFound, "Transaction no longer exists", err.Error())
	case errors.Is(err, audit.ErrUndoUnavailable):
		utils.JSONError(c, http.StatusConflict, "This change cannot be undone", "")
	case errors.Is(err, models.ErrNotTransactionLinked), errors.Is(err, models.ErrInvalidChange):
		utils.JSONError(c, http.StatusUnprocessableEntity, "Notification has no transaction change", err.Error())
	case errors.Is(err, transaction.ErrInvalidTransaction):
		utils.JSONError(c, http.StatusUnprocessableEntity, "Recorded state cannot be restored", err.Error())
	default:
		getLogger(c).Error("Audit operation failed", zap.String("notificationId", c.Param("id")), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to process notification", err.Error())
	}
}
