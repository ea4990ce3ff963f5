package httpapi

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/tripmate/console/internal/live"
	"github.com/tripmate/console/internal/models"
	"github.com/tripmate/console/internal/observability"
	"github.com/tripmate/console/internal/tracking"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// control is an operator input on the tracking stream.
type control struct {
	Action string `json:"action"` // set_mode | set_perspective | advance_stage
	Value  string `json:"value,omitempty"`
}

type routeResult struct {
	req  tracking.RouteRequest
	path []models.LatLng
}

// handleTrack runs one ride-tracking session: it joins the ride's realtime
// room, folds events and operator inputs into the view-state machine, and
// pushes a fresh drawable view to the client after every change. All state
// lives in this handler's goroutine; the reader and route fetches only feed
// channels.
func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ride, ok := s.findRide(r.Context(), id)
	if !ok {
		writeError(w, http.StatusNotFound, "ride not found")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	observability.TrackingSessions.Inc()
	defer observability.TrackingSessions.Dec()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sess := tracking.NewSession(ride)

	// the realtime channel is best-effort: without it the view still
	// renders from the snapshot
	var liveEvents <-chan live.Event
	if sub, err := live.Join(ctx, s.WSURL, id, s.logger); err != nil {
		s.logger.Warn("realtime join failed", "ride_id", id, "error", err)
	} else {
		liveEvents = sub.Events()
		defer sub.Close()
	}

	ctrlCh := make(chan control)
	go func() {
		defer cancel()
		for {
			var c control
			if err := conn.ReadJSON(&c); err != nil {
				return
			}
			select {
			case ctrlCh <- c:
			case <-ctx.Done():
				return
			}
		}
	}()

	routeCh := make(chan routeResult, 4)
	push := func() bool {
		if req := sess.PendingRoute(); req != nil {
			go func(req tracking.RouteRequest) {
				path := s.Resolver.Route(ctx, req.From, req.To)
				select {
				case routeCh <- routeResult{req: req, path: path}:
				case <-ctx.Done():
				}
			}(*req)
		}
		return conn.WriteJSON(sess.View()) == nil
	}

	if !push() {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-liveEvents:
			if !open {
				liveEvents = nil
				continue
			}
			sess.Apply(ev)
		case c := <-ctrlCh:
			applyControl(sess, c)
		case res := <-routeCh:
			if !sess.StoreRoute(res.req, res.path) {
				// stale geometry for waypoints we no longer show
				continue
			}
		}
		if !push() {
			return
		}
	}
}

func applyControl(sess *tracking.Session, c control) {
	switch c.Action {
	case "set_mode":
		sess.SetMode(tracking.Mode(c.Value))
	case "set_perspective":
		sess.SetPerspective(tracking.Perspective(c.Value))
	case "advance_stage":
		sess.AdvanceStage()
	}
}

func (s *Server) findRide(ctx context.Context, id string) (models.Ride, bool) {
	rides, err := s.Platform.Rides(ctx)
	if err != nil {
		s.logger.Error("rides fetch failed", "error", err)
		return models.Ride{}, false
	}
	for _, ride := range rides {
		if ride.ID == id {
			return ride, true
		}
	}
	return models.Ride{}, false
}
