package server

import (
	"encoding/json"
	"sync"
)

// Event is the payload published to SSE subscribers. Team topics carry
// answer and hint activity; the leaderboard topic tells TV displays to
// refresh.
type Event struct {
	Type           string `json:"type"`
	TeamID         string `json:"teamId,omitempty"`
	TeamName       string `json:"teamName,omitempty"`
	PlayerName     string `json:"playerName,omitempty"`
	QuestionNumber int    `json:"questionNumber,omitempty"`
	IsCorrect      bool   `json:"isCorrect,omitempty"`
	PointsAwarded  int    `json:"pointsAwarded,omitempty"`
}

const leaderboardTopic = "leaderboard"

func teamTopic(teamID string) string { return "team:" + teamID }

// Broker is an in-process pub/sub for SSE events, keyed by topic.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the topic.
func (b *Broker) Subscribe(topic string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[chan []byte]struct{})
	}
	b.subs[topic][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the topic's subscribers.
func (b *Broker) Unsubscribe(topic string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[topic], ch)
	if len(b.subs[topic]) == 0 {
		delete(b.subs, topic)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the topic.
func (b *Broker) Publish(topic string, event Event) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[topic] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
