// Package tracking derives the ride-progress view for the console's map:
// which markers, which route polyline, and which narrative stage to draw,
// from a ride snapshot plus the realtime event stream. It owns no durable
// state; everything here is rebuilt when a ride is opened for tracking.
package tracking

import "github.com/tripmate/console/internal/models"

// Mode selects between the planned storyboard and the live map.
type Mode string

const (
	ModeSummary Mode = "summary"
	ModeLive    Mode = "live"
)

// Perspective is the operator-chosen vantage point, only meaningful before
// either party has arrived at the meeting point.
type Perspective string

const (
	PerspectiveRider     Perspective = "rider"
	PerspectivePassenger Perspective = "passenger"
)

// Icon is the marker glyph role.
type Icon string

const (
	IconRider     Icon = "rider"
	IconPassenger Icon = "passenger"
	IconMeeting   Icon = "meeting"
	IconFlag      Icon = "flag"
)

// Segment names a logical route leg. Storyboard legs are fixed per ride;
// the live leg re-keys as the rider moves.
type Segment string

const (
	SegmentApproach Segment = "approach"
	SegmentWalk     Segment = "walk"
	SegmentTrip     Segment = "trip"
	SegmentGoal     Segment = "goal"
	SegmentLive     Segment = "live"
)

// Party identifies who arrived at the meeting point first.
type Party string

const (
	PartyRider     Party = "rider"
	PartyPassenger Party = "passenger"
)

// Marker is one map pin.
type Marker struct {
	Pos  models.LatLng `json:"pos"`
	Icon Icon          `json:"icon"`
}

// RouteRequest identifies a geometry fetch by its input waypoints. A
// response is only accepted while the segment still wants exactly these
// endpoints; anything else is stale and dropped regardless of arrival order.
type RouteRequest struct {
	Seg  Segment
	From models.LatLng
	To   models.LatLng
}

// StageInfo describes the storyboard stage being shown.
type StageInfo struct {
	Index int    `json:"index"`
	Count int    `json:"count"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

// View is the full drawable description for the current state.
type View struct {
	Mode             Mode              `json:"mode"`
	Status           models.RideStatus `json:"status"`
	SummaryAvailable bool              `json:"summaryAvailable"`
	Stage            *StageInfo        `json:"stage,omitempty"`
	Markers          []Marker          `json:"markers"`
	Route            []models.LatLng   `json:"route,omitempty"`
	Center           models.LatLng     `json:"center"`
}

// Waypoints are the ride's geographic anchors after defaulting. Each falls
// back along the chain the platform uses when a field is absent; the zero
// LatLng marks a waypoint with no source at all, which is never drawn.
type Waypoints struct {
	RideStart     models.LatLng
	PassengerHome models.LatLng
	PickupMeeting models.LatLng
	DropMeeting   models.LatLng
	Destination   models.LatLng
}

// ResolveWaypoints applies the defaulting chain to a ride snapshot.
func ResolveWaypoints(r models.Ride) Waypoints {
	start := deref(r.FromLatLng, models.LatLng{})
	home := deref(r.PassengerActualPickup, start)
	pickup := deref(r.PickupMeetingPoint, home)
	drop := deref(r.DropMeetingPoint, deref(r.ToLatLng, start))
	dest := deref(r.PassengerActualDropoff, deref(r.ToLatLng, start))
	return Waypoints{
		RideStart:     start,
		PassengerHome: home,
		PickupMeeting: pickup,
		DropMeeting:   drop,
		Destination:   dest,
	}
}

func deref(p *models.LatLng, fallback models.LatLng) models.LatLng {
	if p != nil {
		return *p
	}
	return fallback
}

func absent(p models.LatLng) bool { return p == (models.LatLng{}) }
