package models

// LatLng is a geographic coordinate as the platform reports it.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RideStatus is the closed set of states the platform assigns to a ride.
// "active" means unbooked/searching; everything after it implies a match exists.
type RideStatus string

const (
	StatusActive          RideStatus = "active"
	StatusBooked          RideStatus = "booked"
	StatusHeadingToPickup RideStatus = "heading_to_pickup"
	StatusArrived         RideStatus = "arrived"
	StatusOngoing         RideStatus = "ongoing"
	StatusCompleted       RideStatus = "completed"
	StatusCancelled       RideStatus = "cancelled"
)

// Booked reports whether a match exists for the ride.
func (s RideStatus) Booked() bool { return s != StatusActive }

// MatchType is the pairing algorithm the platform used for the ride.
type MatchType string

const (
	MatchSmart  MatchType = "smart"
	MatchDetour MatchType = "detour"
)

// Feedback is a post-ride rating left for one participant.
type Feedback struct {
	Rating float64  `json:"rating"`
	Tags   []string `json:"tags"`
}

// Ride is a read-only snapshot of a platform ride. The console never mutates
// ride state; live deltas arrive over the realtime channel.
type Ride struct {
	ID        string     `json:"_id"`
	Status    RideStatus `json:"status"`
	MatchType MatchType  `json:"matchType,omitempty"`

	FromLocation string `json:"fromLocation"`
	ToLocation   string `json:"toLocation"`

	FromLatLng             *LatLng `json:"fromLatLng"`
	ToLatLng               *LatLng `json:"toLatLng"`
	PassengerActualPickup  *LatLng `json:"passengerActualPickup"`
	PickupMeetingPoint     *LatLng `json:"pickupMeetingPoint"`
	DropMeetingPoint       *LatLng `json:"dropMeetingPoint"`
	PassengerActualDropoff *LatLng `json:"passengerActualDropoff"`

	Price         float64 `json:"price"`
	PaymentMethod string  `json:"paymentMethod"`
	PaymentStatus string  `json:"paymentStatus"`
	PaymentRef    string  `json:"paymentRef,omitempty"`

	Rider      *User  `json:"rider"`
	Passengers []User `json:"passengers"`

	Date string `json:"date"`
	Time string `json:"time"`

	CancellationReason string `json:"cancellationReason,omitempty"`
	CancelledBy        string `json:"cancelledBy,omitempty"`

	FeedbackForRider     *Feedback `json:"feedbackForRider,omitempty"`
	FeedbackForPassenger *Feedback `json:"feedbackForPassenger,omitempty"`
}

// RiderStatus is the KYC verification state of a rider account.
type RiderStatus string

const (
	RiderNone     RiderStatus = ""
	RiderPending  RiderStatus = "pending"
	RiderApproved RiderStatus = "approved"
	RiderRejected RiderStatus = "rejected"
)

// User is a platform account. A rider can always also act as a passenger.
type User struct {
	ID          string      `json:"_id"`
	FullName    string      `json:"fullName"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Role        string      `json:"role"` // passenger, rider, admin
	RiderStatus RiderStatus `json:"riderStatus,omitempty"`
	ProfilePic  string      `json:"profilePic"`
	AuthMethod  string      `json:"authMethod"`
	Gender      string      `json:"gender,omitempty"`
	DOB         string      `json:"dob,omitempty"`

	PassengerRating       float64  `json:"passengerRating"`
	RiderRating           float64  `json:"riderRating"`
	PassengerReviewCount  int      `json:"passengerReviewCount"`
	RiderReviewCount      int      `json:"riderReviewCount"`
	PassengerFeedbackTags []string `json:"passengerFeedbackTags,omitempty"`
	RiderFeedbackTags     []string `json:"riderFeedbackTags,omitempty"`

	KYC *KYCDetails `json:"kycDetails,omitempty"`
}

// KYCDetails is the document bundle a rider submits for verification.
// Image fields are asset paths relative to the platform host unless absolute.
type KYCDetails struct {
	CitizenshipFront string `json:"citizenshipFront"`
	CitizenshipBack  string `json:"citizenshipBack"`

	LicenseNumber     string `json:"licenseNumber"`
	LicenseIssueDate  string `json:"licenseIssueDate"`
	LicenseExpiryDate string `json:"licenseExpiryDate"`
	LicenseImage      string `json:"licenseImage"`
	SelfieWithLicense string `json:"selfieWithLicense"`

	VehicleModel          string `json:"vehicleModel"`
	VehicleProductionYear string `json:"vehicleProductionYear"`
	VehiclePlateNumber    string `json:"vehiclePlateNumber"`
	VehiclePhoto          string `json:"vehiclePhoto"`
	BillbookPage2         string `json:"billbookPage2"`
	BillbookPage3         string `json:"billbookPage3"`
}

// DailyStat is one day of revenue in the analytics rollup, newest first.
type DailyStat struct {
	Date    string  `json:"_id"`
	Revenue float64 `json:"revenue"`
	Count   int     `json:"count"`
}

// MatchTypeStat counts rides per matching strategy.
type MatchTypeStat struct {
	Type  MatchType `json:"_id"`
	Count int       `json:"count"`
}

// PaymentTotal aggregates settled fares per payment method.
type PaymentTotal struct {
	Method      string  `json:"_id"`
	TotalAmount float64 `json:"totalAmount"`
	UserCount   int     `json:"userCount"`
}

// LeaderboardEntry ranks a user by completed rides.
type LeaderboardEntry struct {
	UserID     string  `json:"_id"`
	FullName   string  `json:"fullName"`
	ProfilePic string  `json:"profilePic"`
	RideCount  int     `json:"rideCount"`
	Rating     float64 `json:"rating"`
}

// Analytics is the /admin/analytics payload.
type Analytics struct {
	DailyStats     []DailyStat        `json:"dailyStats"`
	MatchTypeStats []MatchTypeStat    `json:"matchTypeStats"`
	PaymentTotals  []PaymentTotal     `json:"paymentTotals"`
	TopRiders      []LeaderboardEntry `json:"topRiders"`
	TopPassengers  []LeaderboardEntry `json:"topPassengers"`
}

// Stats is the /admin/stats payload.
type Stats struct {
	TotalEarned    float64 `json:"totalEarned"`
	TotalRides     int     `json:"totalRides"`
	TotalUsers     int     `json:"totalUsers"`
	BookedCount    int     `json:"bookedCount"`
	OngoingCount   int     `json:"ongoingCount"`
	CompletedCount int     `json:"completedCount"`
	CancelledCount int     `json:"cancelledCount"`
}
