package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/tripmate/console/internal/models"
	"github.com/tripmate/console/internal/observability"
)

// EventType names the realtime events the platform emits into a ride room.
type EventType string

const (
	EventRiderLocation  EventType = "rider_location_updated"
	EventStatusUpdated  EventType = "status_updated"
	EventPassengerReady EventType = "passenger_ready_update"
)

// Event is one inbound realtime update, already decoded for the view layer.
type Event struct {
	Type     EventType
	Position models.LatLng     // EventRiderLocation
	Status   models.RideStatus // EventStatusUpdated
}

type frame struct {
	Event EventType       `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Subscriber holds one per-ride realtime connection. A tracking view opens
// exactly one and closes it on teardown.
type Subscriber struct {
	conn   *websocket.Conn
	events chan Event
	done   chan struct{}
	logger *slog.Logger

	closeOnce sync.Once
}

// Join dials the realtime endpoint and enters the ride's room. The returned
// subscriber republishes decoded events until the connection drops or Close
// is called.
func Join(ctx context.Context, wsURL, rideID string, logger *slog.Logger) (*Subscriber, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, err
	}
	join := map[string]string{"event": "join_room", "rideId": rideID}
	if err := conn.WriteJSON(join); err != nil {
		conn.Close()
		return nil, err
	}
	s := &Subscriber{conn: conn, events: make(chan Event, 16), done: make(chan struct{}), logger: logger}
	go s.readLoop()
	return s, nil
}

// Events yields decoded updates. The channel closes when the connection ends.
func (s *Subscriber) Events() <-chan Event { return s.events }

// Close tears the connection down and releases the read loop even when the
// consumer stopped draining events. Safe to call more than once.
func (s *Subscriber) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.conn.Close()
	})
	return err
}

func (s *Subscriber) readLoop() {
	defer close(s.events)
	for {
		var f frame
		if err := s.conn.ReadJSON(&f); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("realtime read failed", "error", err)
			}
			return
		}
		ev, ok := decode(f)
		if !ok {
			continue
		}
		observability.LiveEventsTotal.WithLabelValues(string(ev.Type)).Inc()
		// the consumer may be gone with the buffer full; never block past Close
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}

func decode(f frame) (Event, bool) {
	switch f.Event {
	case EventRiderLocation:
		var pos models.LatLng
		if err := json.Unmarshal(f.Data, &pos); err != nil {
			return Event{}, false
		}
		return Event{Type: EventRiderLocation, Position: pos}, true
	case EventStatusUpdated:
		var data struct {
			Status models.RideStatus `json:"status"`
		}
		if err := json.Unmarshal(f.Data, &data); err != nil {
			return Event{}, false
		}
		return Event{Type: EventStatusUpdated, Status: data.Status}, true
	case EventPassengerReady:
		return Event{Type: EventPassengerReady}, true
	default:
		// unknown event types are ignored, not errors
		return Event{}, false
	}
}
