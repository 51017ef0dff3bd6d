package server

import (
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Event types published after each successful mutation.
const (
	EventBudgetSaved    = "budget_saved"
	EventBudgetDeleted  = "budget_deleted"
	EventBudgetStatus   = "budget_status"
	EventCatalogSaved   = "catalog_saved"
	EventCatalogDeleted = "catalog_deleted"
	EventSettingsSaved  = "settings_saved"
)

const defaultEventsBuffer = 200

// Event tells a listening front-end which document changed.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Subject   string    `json:"subject,omitempty"`
}

// eventLog keeps the most recent events and fans new ones out to streams.
type eventLog struct {
	mu     sync.Mutex
	now    func() time.Time
	limit  int
	nextID int64
	events []Event

	nextSubID int
	subs      map[int]chan Event
}

func newEventLog(limit int, now func() time.Time) *eventLog {
	if limit < 1 {
		limit = defaultEventsBuffer
	}
	return &eventLog{limit: limit, now: now, subs: make(map[int]chan Event)}
}

func (l *eventLog) publish(typ, subject string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	ev := Event{ID: l.nextID, Type: typ, Timestamp: l.now(), Subject: subject}
	l.events = append(l.events, ev)
	if len(l.events) > l.limit {
		l.events = l.events[len(l.events)-l.limit:]
	}
	for _, ch := range l.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// since returns the retained events with an id greater than after.
func (l *eventLog) since(after int64) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []Event{}
	for _, ev := range l.events {
		if ev.ID > after {
			out = append(out, ev)
		}
	}
	return out
}

func (l *eventLog) subscribe(ch chan Event) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextSubID++
	l.subs[l.nextSubID] = ch
	return l.nextSubID
}

func (l *eventLog) unsubscribe(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.subs, id)
}

func (s *Server) handleEvents(c *gin.Context) {
	var after int64
	if raw := c.Query("after"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(c, "after must be an event id")
			return
		}
		after = n
	}
	c.JSON(http.StatusOK, s.events.since(after))
}

func (s *Server) handleStream(c *gin.Context) {
	ch := make(chan Event, 16)
	id := s.events.subscribe(ch)
	defer s.events.unsubscribe(id)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("hello", gin.H{"started_at": s.startedAt})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev := <-ch:
			c.SSEvent(ev.Type, ev)
			return true
		}
	})
}
