package entities

type BookingEmailData struct {
	CustomerName  string
	CustomerEmail string
	Notes         string
	DisplayStart  string
	DisplayEnd    string
	ZoneAbbrev    string
	BookingID     string
	SessionID     string
	CurrentYear   int
}

type DigestEmailData struct {
	Day      string
	Bookings []BookingEmailData
}
