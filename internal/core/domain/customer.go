package domain

import "time"

// Customer is immutable reference data, loaded once per run.
// NameHash is a blake2b-256 hex digest; raw display names never enter the system.
type Customer struct {
	ID           string    `json:"id"`
	NameHash     string    `json:"name_hash"`
	RegisteredAt time.Time `json:"registered_at"`
	Country      string    `json:"country"`
}
