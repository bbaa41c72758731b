package guestauth

// AuthResponse is returned after successful OTP verification
type AuthResponse struct {
	SessionToken string  `json:"session_token"`
	ExpiresIn    int64   `json:"expires_in"` // seconds
	Contact      string  `json:"contact"`
	Channel      Channel `json:"channel"`
}

// CooldownResponse reports when the next OTP request is allowed
type CooldownResponse struct {
	RetryAt int64 `json:"retry_at"` // unix seconds
}
