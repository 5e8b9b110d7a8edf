package domain

// ManifestRow is a single row in the full-data export.
// It is a flat, denormalized view: one row per booking, with trip fields
// repeated for every booking on that trip. Trips with no bookings yield one
// row with zero values for all booking fields.
type ManifestRow struct {
	// Trip fields — repeated for every booking on the trip.
	TripID        string
	TripName      string
	TripStartDate string // "2006-01-02" formatted date
	TotalCost     int64
	TotalPaid     int64
	TotalNet      int64

	// Booking fields — zero values when the trip has no bookings.
	ClientName       string
	ClientPhone      string
	Companions       int
	Cost             int64
	Paid             int64
	Net              int64
	Returning        bool
	ReturnDate       string // empty when not returning
	BoardingLocation string
}
