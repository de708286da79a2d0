package service

import (
	"context"
	"fmt"
	"time"

	"tutor-portal/internal/domain/entity"
	"tutor-portal/internal/domain/repository"
	"tutor-portal/internal/infrastructure/metrics"
	"tutor-portal/internal/infrastructure/push"

	"github.com/sirupsen/logrus"
)

const pushTimeout = 5 * time.Second

// Pusher delivers a push notification to a device.
type Pusher interface {
	Send(ctx context.Context, msg push.Message) error
}

// NotificationService alerts the tutor's phone about severe events.
type NotificationService interface {
	NotifyEvento(ctx context.Context, evento *entity.Evento)
}

type notificationService struct {
	pusher      Pusher
	log         *logrus.Logger
	tutorRepo   repository.TutorRepository
	minSeverity entity.Severidade
}

// NewNotificationService returns a service that skips every push when pusher is nil.
func NewNotificationService(pusher Pusher, log *logrus.Logger, tutorRepo repository.TutorRepository, minSeverity entity.Severidade) NotificationService {
	if !minSeverity.Valid() {
		minSeverity = entity.SeveridadeAlta
	}
	return &notificationService{
		pusher:      pusher,
		log:         log,
		tutorRepo:   tutorRepo,
		minSeverity: minSeverity,
	}
}

// NotifyEvento is best effort: failures are logged and counted, never returned.
func (s *notificationService) NotifyEvento(ctx context.Context, evento *entity.Evento) {
	if s.pusher == nil || !evento.Severidade.AtLeast(s.minSeverity) {
		metrics.PushNotifications.WithLabelValues(metrics.ResultSkipped).Inc()
		return
	}

	tutor, err := s.tutorRepo.FindByID(ctx, evento.TutorID)
	if err != nil {
		s.log.Warnf("Failed to load tutor for push notification: %+v", err)
		metrics.PushNotifications.WithLabelValues(metrics.ResultFailure).Inc()
		return
	}
	if tutor == nil || tutor.DeviceToken == "" {
		metrics.PushNotifications.WithLabelValues(metrics.ResultSkipped).Inc()
		return
	}

	ctx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()

	err = s.pusher.Send(ctx, push.Message{
		Token: tutor.DeviceToken,
		Title: fmt.Sprintf("Alerta %s: %s", evento.Severidade, evento.Titulo),
		Body:  evento.Descricao,
		Data: map[string]string{
			"type":       "evento",
			"eventoId":   evento.ID,
			"idosoId":    evento.IdosoID,
			"tipo":       string(evento.Tipo),
			"severidade": string(evento.Severidade),
		},
		Critical: evento.Severidade == entity.SeveridadeCritica,
	})
	if err != nil {
		metrics.PushNotifications.WithLabelValues(metrics.ResultFailure).Inc()
		s.log.Warnf("Failed to send push notification for evento %s: %+v", evento.ID, err)
		return
	}
	metrics.PushNotifications.WithLabelValues(metrics.ResultSuccess).Inc()
}
