package domain

import "time"

// Organization is the tenancy root; every other entity references it
// directly or through its parent.
type Organization struct {
	ID         string
	Name       string
	Domain     string
	InviteCode string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
