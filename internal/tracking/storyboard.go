package tracking

import "github.com/tripmate/console/internal/models"

// Stage is one step of the planned-ride storyboard.
type Stage struct {
	Segment  Segment
	Title    string
	Desc     string
	From     models.LatLng
	FromIcon Icon
	To       models.LatLng
	ToIcon   Icon
}

// Stages returns the applicable storyboard for the ride, in order. Under
// the detour strategy the rider drives to the passenger, so there is no
// passenger walk; the final doorstep leg only exists under smart matching.
func (s *Session) Stages() []Stage {
	detour := s.ride.MatchType == models.MatchDetour
	smart := s.ride.MatchType == models.MatchSmart

	approach := Stage{
		Segment:  SegmentApproach,
		Title:    "Rider Approach",
		Desc:     "Rider driving to meeting point.",
		From:     s.wp.RideStart,
		FromIcon: IconRider,
		To:       s.wp.PickupMeeting,
		ToIcon:   IconMeeting,
	}
	if detour {
		approach.Desc = "Rider driving to passenger location."
		approach.ToIcon = IconPassenger
	}

	stages := []Stage{approach}
	if !detour {
		stages = append(stages, Stage{
			Segment:  SegmentWalk,
			Title:    "Passenger Walk",
			Desc:     "Passenger walking to meeting point.",
			From:     s.wp.PassengerHome,
			FromIcon: IconPassenger,
			To:       s.wp.PickupMeeting,
			ToIcon:   IconMeeting,
		})
	}
	stages = append(stages, Stage{
		Segment:  SegmentTrip,
		Title:    "Trip Ongoing",
		Desc:     "Shared ride on motorcycle.",
		From:     s.wp.PickupMeeting,
		FromIcon: IconRider,
		To:       s.wp.DropMeeting,
		ToIcon:   IconFlag,
	})
	if smart {
		stages = append(stages, Stage{
			Segment:  SegmentGoal,
			Title:    "Final Doorstep",
			Desc:     "Passenger walking to destination.",
			From:     s.wp.DropMeeting,
			FromIcon: IconPassenger,
			To:       s.wp.Destination,
			ToIcon:   IconFlag,
		})
	}
	return stages
}
