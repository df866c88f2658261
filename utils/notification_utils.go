package utils

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/HSouheill/tellerdesk_backend/config"
	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/gomail.v2"
)

const fcmChannel = "tellerdesk_fcm_channel"

// TokenLookup finds the user a push notification is addressed to.
type TokenLookup interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Notifier fans a notification out to the in-app inbox and FCM, and sends
// operational mail to the admin address.
type Notifier struct {
	notifications *mongo.Collection
	users         TokenLookup
	firebase      *firebase.App
	cfg           *config.AppConfig
	logger        *logrus.Logger
}

func NewNotifier(db *mongo.Database, users TokenLookup, app *firebase.App, cfg *config.AppConfig) *Notifier {
	n := &Notifier{
		users:    users,
		firebase: app,
		cfg:      cfg,
		logger:   config.GetLogger(),
	}
	if db != nil {
		n.notifications = config.GetCollection(db, config.CollNotifications)
	}
	return n
}

// SaveNotification saves a notification to the database
func (n *Notifier) SaveNotification(ctx context.Context, userID primitive.ObjectID, title, message, notifType string, data interface{}) error {
	if n.notifications == nil {
		return nil
	}
	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		Data:      data,
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	_, err := n.notifications.InsertOne(ctx, notification)
	return err
}

// NotifyUser stores an in-app notification and pushes it over FCM when the
// user has a token. Failures are logged, never returned.
func (n *Notifier) NotifyUser(ctx context.Context, userID primitive.ObjectID, title, message, notifType string, data interface{}) {
	if err := n.SaveNotification(ctx, userID, title, message, notifType, data); err != nil {
		config.LogError(n.logger, "notifier", "NotifyUser", "save notification", logrus.Fields{"userId": userID.Hex()}, err)
	}
	payload := map[string]string{}
	if m, ok := data.(map[string]interface{}); ok {
		for k, v := range m {
			payload[k] = fmt.Sprint(v)
		}
	}
	if err := n.SendFCMNotificationToUser(ctx, userID, title, message, notifType, payload); err != nil {
		n.logger.WithFields(logrus.Fields{"userId": userID.Hex(), "error": err.Error()}).Debug("Push notification not sent")
	}
}

// SendFCMNotificationToUser sends a Firebase Cloud Messaging notification to a user
func (n *Notifier) SendFCMNotificationToUser(ctx context.Context, userID primitive.ObjectID, title, message, notifType string, data map[string]string) error {
	if n.firebase == nil {
		return fmt.Errorf("firebase app not initialized")
	}
	if n.users == nil {
		return fmt.Errorf("no user lookup configured")
	}
	user, err := n.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user.FCMToken == "" {
		return fmt.Errorf("user has no FCM token")
	}

	client, err := n.firebase.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging client: %w", err)
	}

	notificationData := map[string]string{
		"type":      notifType,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	for key, value := range data {
		notificationData[key] = value
	}

	fcmMessage := &messaging.Message{
		Token: user.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  message,
		},
		Data: notificationData,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:     "default",
				ChannelID: fcmChannel,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: title,
						Body:  message,
					},
					Sound: "default",
				},
			},
		},
	}

	response, err := client.Send(ctx, fcmMessage)
	if err != nil {
		return fmt.Errorf("failed to send FCM notification: %w", err)
	}
	n.logger.WithFields(logrus.Fields{"userId": userID.Hex(), "messageId": response}).Info("FCM notification sent")
	return nil
}

// EmailAdmin mails the configured admin address. It is a no-op when SMTP or
// the admin address is not configured.
func (n *Notifier) EmailAdmin(subject, body string) error {
	if n.cfg == nil || !n.cfg.MailEnabled() || n.cfg.AdminEmail == "" {
		n.logger.WithField("subject", subject).Info("Admin email skipped: mail not configured")
		return nil
	}
	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.FromEmail)
	m.SetHeader("To", n.cfg.AdminEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(n.cfg.SMTPHost, n.cfg.SMTPPort, n.cfg.SMTPUser, n.cfg.SMTPPass)
	if err := d.DialAndSend(m); err != nil {
		config.LogError(n.logger, "notifier", "EmailAdmin", subject, nil, err)
		return err
	}
	return nil
}
