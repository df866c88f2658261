package controllers

import (
	"context"

	"github.com/HSouheill/tellerdesk_backend/middleware"
	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/HSouheill/tellerdesk_backend/utils"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationInbox interface {
	ListByUser(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, limit int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, id primitive.ObjectID) (int64, error)
}

type FCMTokenStore interface {
	SetFCMToken(ctx context.Context, id primitive.ObjectID, token string) error
}

type NotificationController struct {
	inbox  NotificationInbox
	tokens FCMTokenStore
}

func NewNotificationController(inbox NotificationInbox, tokens FCMTokenStore) *NotificationController {
	return &NotificationController{inbox: inbox, tokens: tokens}
}

// FCMTokenUpdateRequest represents the request body for updating FCM tokens
type FCMTokenUpdateRequest struct {
	FCMToken string `json:"fcmToken" validate:"required,max=4096"`
}

// ListNotifications handles GET /api/notifications
func (nc *NotificationController) ListNotifications(c echo.Context) error {
	unread := utils.BoolQuery(c, "unread")
	list, err := nc.inbox.ListByUser(c.Request().Context(), middleware.ActorID(c), unread != nil && *unread, utils.LimitQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return respondOK(c, "Notifications retrieved successfully", list)
}

// MarkRead handles PUT /api/notifications/:id/read and PUT /api/notifications/read-all
func (nc *NotificationController) MarkRead(c echo.Context) error {
	id := primitive.NilObjectID
	if c.Param("id") != "" {
		var err error
		if id, err = utils.ObjectIDParam(c, "id"); err != nil {
			return fail(c, err)
		}
	}
	n, err := nc.inbox.MarkRead(c.Request().Context(), middleware.ActorID(c), id)
	if err != nil {
		return fail(c, err)
	}
	return respondOK(c, "Notifications marked as read", map[string]int64{"updated": n})
}

// UpdateUserFCMToken handles POST /api/users/fcm-token
func (nc *NotificationController) UpdateUserFCMToken(c echo.Context) error {
	var req FCMTokenUpdateRequest
	if err := bindRequest(c, &req); err != nil {
		return fail(c, err)
	}
	if err := nc.tokens.SetFCMToken(c.Request().Context(), middleware.ActorID(c), req.FCMToken); err != nil {
		return fail(c, err)
	}
	return respondOK(c, "FCM token updated successfully", nil)
}
