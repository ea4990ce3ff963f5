package tracking

import (
	"github.com/tripmate/console/internal/live"
	"github.com/tripmate/console/internal/models"
)

// Session is the view-state machine for one tracked ride. It is not safe
// for concurrent use: the tracking view owns it from a single event loop
// and feeds it realtime events, operator inputs, and route results in
// whatever order they land.
type Session struct {
	ride models.Ride
	wp   Waypoints

	mode        Mode
	perspective Perspective
	stageIdx    int

	livePos      models.LatLng
	riderArrived bool
	paxArrived   bool
	firstArrived Party

	routes map[Segment]routeEntry
}

type routeEntry struct {
	from models.LatLng
	to   models.LatLng
	path []models.LatLng
}

// NewSession builds the machine from a ride snapshot. Arrival flags are
// reconstructed from the initial status; the backend's status field stays
// authoritative throughout.
func NewSession(ride models.Ride) *Session {
	s := &Session{
		ride:        ride,
		wp:          ResolveWaypoints(ride),
		perspective: PerspectiveRider,
		routes:      make(map[Segment]routeEntry),
	}
	s.livePos = s.wp.RideStart
	if ride.Status == models.StatusArrived || ride.Status == models.StatusOngoing {
		s.riderArrived = true
	}
	if ride.Status.Booked() {
		s.mode = ModeSummary
	} else {
		// before a match exists the storyboard is meaningless
		s.mode = ModeLive
	}
	return s
}

// Apply folds one realtime event into the state. Last write wins; events
// are not reordered or reconciled.
func (s *Session) Apply(ev live.Event) {
	switch ev.Type {
	case live.EventRiderLocation:
		s.livePos = ev.Position
	case live.EventStatusUpdated:
		s.ride.Status = ev.Status
		if ev.Status == models.StatusArrived {
			s.riderArrived = true
			if s.firstArrived == "" {
				s.firstArrived = PartyRider
			}
		}
	case live.EventPassengerReady:
		s.paxArrived = true
		if s.firstArrived == "" {
			s.firstArrived = PartyPassenger
		}
	}
}

// SetMode switches display modes. Summary is refused while the ride is
// still searching; entering it resets the storyboard to the first stage.
func (s *Session) SetMode(m Mode) {
	switch m {
	case ModeSummary:
		if !s.ride.Status.Booked() {
			return
		}
		s.stageIdx = 0
		s.mode = ModeSummary
	case ModeLive:
		s.mode = ModeLive
	}
}

// SetPerspective chooses whose approach the live map follows. The
// passenger vantage only exists under the smart strategy; once any party
// has arrived the selector stops mattering.
func (s *Session) SetPerspective(p Perspective) {
	if p == PerspectivePassenger && s.ride.MatchType != models.MatchSmart {
		return
	}
	if p == PerspectiveRider || p == PerspectivePassenger {
		s.perspective = p
	}
}

// AdvanceStage moves the storyboard forward one stage, saturating at the
// last applicable stage. There is no wraparound and no going back.
func (s *Session) AdvanceStage() {
	if s.mode != ModeSummary {
		return
	}
	if n := len(s.Stages()); s.stageIdx < n-1 {
		s.stageIdx++
	}
}

// Mode returns the active display mode.
func (s *Session) Mode() Mode { return s.mode }

// Status returns the last known ride status.
func (s *Session) Status() models.RideStatus { return s.ride.Status }

// FirstArrived reports which party reached the meeting point first, or ""
// when neither has.
func (s *Session) FirstArrived() Party { return s.firstArrived }

// View assembles the drawable description for the current state.
func (s *Session) View() View {
	v := View{
		Mode:             s.mode,
		Status:           s.ride.Status,
		SummaryAvailable: s.ride.Status.Booked(),
		Center:           s.center(),
	}
	if s.mode == ModeSummary && s.ride.Status.Booked() {
		stages := s.Stages()
		idx := s.stageIdx
		if idx >= len(stages) {
			idx = len(stages) - 1
		}
		st := stages[idx]
		v.Stage = &StageInfo{Index: idx, Count: len(stages), Title: st.Title, Desc: st.Desc}
		v.Markers = markerPair(st.From, st.FromIcon, st.To, st.ToIcon)
		if e, ok := s.routes[st.Segment]; ok && e.from == st.From && e.to == st.To {
			v.Route = e.path
		}
		return v
	}
	markers, seg := s.liveView()
	v.Mode = ModeLive
	v.Markers = markers
	if seg != nil {
		if e, ok := s.routes[SegmentLive]; ok && e.from == seg.From && e.to == seg.To {
			v.Route = e.path
		}
	}
	return v
}

// PendingRoute returns the geometry fetch the displayed segment still
// needs, or nil when the shown route is current. Nothing is requested
// while the ride is pre-booking, or when an endpoint is absent.
func (s *Session) PendingRoute() *RouteRequest {
	if !s.ride.Status.Booked() {
		return nil
	}
	var req RouteRequest
	if s.mode == ModeSummary {
		stages := s.Stages()
		idx := s.stageIdx
		if idx >= len(stages) {
			idx = len(stages) - 1
		}
		st := stages[idx]
		req = RouteRequest{Seg: st.Segment, From: st.From, To: st.To}
	} else {
		_, seg := s.liveView()
		if seg == nil {
			return nil
		}
		req = *seg
	}
	if absent(req.From) || absent(req.To) {
		return nil
	}
	if e, ok := s.routes[req.Seg]; ok && e.from == req.From && e.to == req.To {
		return nil
	}
	return &req
}

// StoreRoute records a resolved geometry. The result is dropped when its
// input waypoints no longer match what the segment currently wants, so a
// slow response can never overwrite a newer one.
func (s *Session) StoreRoute(req RouteRequest, path []models.LatLng) bool {
	from, to, ok := s.segmentEndpoints(req.Seg)
	if !ok || from != req.From || to != req.To {
		return false
	}
	s.routes[req.Seg] = routeEntry{from: from, to: to, path: path}
	return true
}

// segmentEndpoints returns the endpoints a segment currently maps to.
func (s *Session) segmentEndpoints(seg Segment) (models.LatLng, models.LatLng, bool) {
	if !s.ride.Status.Booked() {
		return models.LatLng{}, models.LatLng{}, false
	}
	switch seg {
	case SegmentApproach:
		return s.wp.RideStart, s.wp.PickupMeeting, true
	case SegmentWalk:
		if s.ride.MatchType == models.MatchDetour {
			return models.LatLng{}, models.LatLng{}, false
		}
		return s.wp.PassengerHome, s.wp.PickupMeeting, true
	case SegmentTrip:
		return s.wp.PickupMeeting, s.wp.DropMeeting, true
	case SegmentGoal:
		if s.ride.MatchType != models.MatchSmart {
			return models.LatLng{}, models.LatLng{}, false
		}
		return s.wp.DropMeeting, s.wp.Destination, true
	case SegmentLive:
		_, want := s.liveView()
		if want == nil {
			return models.LatLng{}, models.LatLng{}, false
		}
		return want.From, want.To, true
	}
	return models.LatLng{}, models.LatLng{}, false
}

func (s *Session) center() models.LatLng {
	if s.ride.Status == models.StatusOngoing {
		return s.wp.PickupMeeting
	}
	return s.livePos
}

func markerPair(a models.LatLng, ai Icon, b models.LatLng, bi Icon) []Marker {
	out := make([]Marker, 0, 2)
	if !absent(a) {
		out = append(out, Marker{Pos: a, Icon: ai})
	}
	if !absent(b) {
		out = append(out, Marker{Pos: b, Icon: bi})
	}
	return out
}
