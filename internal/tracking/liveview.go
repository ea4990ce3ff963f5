package tracking

import "github.com/tripmate/console/internal/models"

// liveView resolves the live-mode marker set and the route leg it needs.
// Exactly one configuration applies; the branch order below is load-bearing
// (completed beats both-arrived, detour beats the arrival rules) and must
// not be reshuffled.
func (s *Session) liveView() ([]Marker, *RouteRequest) {
	wp := s.wp
	detour := s.ride.MatchType == models.MatchDetour

	switch {
	case !s.ride.Status.Booked():
		// still searching: only the ride start exists
		return markerPair(wp.RideStart, IconRider, models.LatLng{}, IconRider), nil

	case s.ride.Status == models.StatusOngoing:
		// trip underway: static pickup and drop pins, live position ignored
		return markerPair(wp.PickupMeeting, IconRider, wp.DropMeeting, IconFlag),
			s.liveLeg(wp.PickupMeeting, wp.DropMeeting)

	case s.ride.Status == models.StatusCompleted:
		// route cleared; marker collapses to the both-arrived shape
		return markerPair(wp.PickupMeeting, IconRider, models.LatLng{}, IconRider), nil

	case detour && !s.riderArrived:
		return markerPair(s.livePos, IconRider, wp.PickupMeeting, IconPassenger),
			s.liveLeg(s.livePos, wp.PickupMeeting)

	case detour && s.riderArrived:
		return markerPair(wp.PickupMeeting, IconRider, models.LatLng{}, IconRider), nil

	case s.riderArrived && s.paxArrived:
		return markerPair(wp.PickupMeeting, IconRider, models.LatLng{}, IconRider), nil

	case s.riderArrived && !s.paxArrived:
		return markerPair(wp.PickupMeeting, IconRider, wp.PassengerHome, IconPassenger),
			s.liveLeg(wp.PassengerHome, wp.PickupMeeting)

	case s.paxArrived && !s.riderArrived:
		return markerPair(wp.PickupMeeting, IconPassenger, s.livePos, IconRider),
			s.liveLeg(s.livePos, wp.PickupMeeting)
	}

	// neither arrived: a recorded first-arrival wins over the perspective
	// selector so reconnecting mid-ride keeps showing the right party
	switch s.firstArrived {
	case PartyRider:
		return markerPair(wp.PickupMeeting, IconRider, wp.PassengerHome, IconPassenger),
			s.liveLeg(wp.PassengerHome, wp.PickupMeeting)
	case PartyPassenger:
		return markerPair(wp.PickupMeeting, IconPassenger, s.livePos, IconRider),
			s.liveLeg(s.livePos, wp.PickupMeeting)
	}

	if s.perspective == PerspectivePassenger {
		return markerPair(wp.PassengerHome, IconPassenger, wp.PickupMeeting, IconMeeting),
			s.liveLeg(wp.PassengerHome, wp.PickupMeeting)
	}
	return markerPair(s.livePos, IconRider, wp.PickupMeeting, IconMeeting),
		s.liveLeg(s.livePos, wp.PickupMeeting)
}

func (s *Session) liveLeg(from, to models.LatLng) *RouteRequest {
	if absent(from) || absent(to) {
		return nil
	}
	return &RouteRequest{Seg: SegmentLive, From: from, To: to}
}
