package models

// SessionState is the small persisted record tracking which saved account the
// live credential belongs to, and which one it belonged to before.
// Current is empty only before the first account is ever established.
type SessionState struct {
	Current  string `json:"current"`
	Previous string `json:"previous"`
}
