package config

import (
	"context"
	"encoding/base64"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// InitFirebase returns nil when no credentials are configured; push
// notifications are then skipped.
func InitFirebase(cfg *AppConfig) *firebase.App {
	log := GetLogger()
	ctx := context.Background()

	var opt option.ClientOption
	switch {
	case cfg.FirebaseCredentialsBase64 != "":
		decoded, err := base64.StdEncoding.DecodeString(cfg.FirebaseCredentialsBase64)
		if err != nil {
			log.Errorf("Error decoding base64 Firebase credentials: %v", err)
			return nil
		}
		opt = option.WithCredentialsJSON(decoded)
	case cfg.FirebaseCredentialsFile != "":
		log.Infof("Using Firebase credentials file: %s", cfg.FirebaseCredentialsFile)
		opt = option.WithCredentialsFile(cfg.FirebaseCredentialsFile)
	default:
		log.Info("Firebase credentials not configured, push notifications disabled")
		return nil
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opt)
	if err != nil {
		log.Errorf("Error initializing Firebase app: %v", err)
		return nil
	}
	return app
}
