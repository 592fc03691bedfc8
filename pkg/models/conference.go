package models

// Conference is the event that assignments and payments belong to.
// Registration, seating and publishing are handled elsewhere; this service
// only needs the reference data shown alongside assignments and payments.
type Conference struct {
	// ID is a short human-chosen identifier (e.g. "xmun-2026").
	ID string `json:"id"`

	// Title is the full conference name.
	Title string `json:"title"`

	// Abbr is the short name shown in headers.
	Abbr string `json:"abbr"`

	// Logo is a URL to the conference logo.
	Logo string `json:"logo,omitempty"`
}
