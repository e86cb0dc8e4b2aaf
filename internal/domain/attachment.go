package domain

import "time"

// Attachment records file metadata for a ticket. The bytes live in an
// external store; only the reference is persisted here.
type Attachment struct {
	ID           string
	TicketID     string
	FileKey      string
	FileName     string
	UploadedByID string
	UploadedAt   time.Time
}
