package push

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// Message is a push notification addressed to one device.
type Message struct {
	Token    string
	Title    string
	Body     string
	Data     map[string]string
	Critical bool
}

type FirebasePusher struct {
	client *messaging.Client
	log    *logrus.Logger
}

// NewFirebasePusher initializes the FCM client from a service account file.
func NewFirebasePusher(ctx context.Context, credentialsPath string, log *logrus.Logger) (*FirebasePusher, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Messaging client: %w", err)
	}

	log.Info("Firebase messaging initialized")

	return &FirebasePusher{client: client, log: log}, nil
}

func (p *FirebasePusher) Send(ctx context.Context, msg Message) error {
	if msg.Token == "" {
		return fmt.Errorf("device token is empty")
	}

	data := map[string]string{
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
	}
	for k, v := range msg.Data {
		data[k] = v
	}

	notification := &messaging.AndroidNotification{
		Sound:        "default",
		Priority:     messaging.PriorityDefault,
		ChannelID:    "tutor_eventos",
		DefaultSound: true,
	}
	priority := "normal"
	if msg.Critical {
		priority = "high"
		notification.Priority = messaging.PriorityHigh
		notification.ChannelID = "tutor_alertas"
		notification.Color = "#FF0000"
	}

	id, err := p.client.Send(ctx, &messaging.Message{
		Token: msg.Token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority:     priority,
			Notification: notification,
		},
	})
	if err != nil {
		return fmt.Errorf("error sending push: %w", err)
	}

	p.log.WithField("message_id", id).Debug("Push notification sent")
	return nil
}
