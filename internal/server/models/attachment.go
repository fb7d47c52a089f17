package models

import "time"

// Attachment is an evidence file uploaded by an account in support of a
// credential request. The payload itself lives in object storage; the row
// only records the storage key.
type Attachment struct {
	ID           string
	OwnerID      string
	TemplateType TemplateType
	StorageKey   string
	FileName     string
	CreatedAt    time.Time
}
