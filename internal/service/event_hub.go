package service

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Stream message types
const (
	StreamEventoCreated = "evento.created"
	StreamEventoRead    = "evento.read"
)

const subscriberBuffer = 32

// StreamMessage is what a live feed client receives.
type StreamMessage struct {
	Type      string      `json:"type"`
	TutorID   string      `json:"tutorId"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Subscriber is one live feed connection following a tutor's events.
type Subscriber struct {
	ID      string
	TutorID string
	Send    chan []byte
}

// EventHub fans event notifications out to the subscribers of each tutor.
type EventHub struct {
	mu     sync.RWMutex
	topics map[string]map[*Subscriber]struct{}
	log    *logrus.Logger
}

func NewEventHub(log *logrus.Logger) *EventHub {
	return &EventHub{
		topics: make(map[string]map[*Subscriber]struct{}),
		log:    log,
	}
}

func (h *EventHub) Subscribe(tutorID string) *Subscriber {
	sub := &Subscriber{
		ID:      uuid.NewString(),
		TutorID: tutorID,
		Send:    make(chan []byte, subscriberBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.topics[tutorID] == nil {
		h.topics[tutorID] = make(map[*Subscriber]struct{})
	}
	h.topics[tutorID][sub] = struct{}{}
	return sub
}

// Unsubscribe removes sub and closes its Send channel. Calling it twice is a no-op.
func (h *EventHub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subscribers, ok := h.topics[sub.TutorID]
	if !ok {
		return
	}
	if _, ok := subscribers[sub]; !ok {
		return
	}
	delete(subscribers, sub)
	if len(subscribers) == 0 {
		delete(h.topics, sub.TutorID)
	}
	close(sub.Send)
}

// Publish delivers msg to every subscriber of tutorID. Slow subscribers miss messages.
func (h *EventHub) Publish(tutorID, msgType string, data interface{}) {
	payload, err := json.Marshal(StreamMessage{
		Type:      msgType,
		TutorID:   tutorID,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
	if err != nil {
		h.log.Warnf("Failed to marshal stream message: %+v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.topics[tutorID] {
		select {
		case sub.Send <- payload:
		default:
			h.log.WithField("subscriber", sub.ID).Debug("Stream subscriber buffer full, dropping message")
		}
	}
}

func (h *EventHub) SubscriberCount(tutorID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[tutorID])
}
