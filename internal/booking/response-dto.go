package booking

// ConfirmResponse is returned after a successful confirm: the client
// navigates to PayURL, which serves the auto-submitting gateway form
type ConfirmResponse struct {
	BookingRef string `json:"booking_ref"`
	Total      int64  `json:"total"`
	Degraded   bool   `json:"degraded"`
	PayURL     string `json:"pay_url"`
	ExpiresIn  int64  `json:"expires_in"` // seconds until the handoff lapses
}
