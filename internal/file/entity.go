// AngelaMos | 2026
// entity.go

package file

import (
	"time"
)

// File is the metadata row for a blob uploaded against an organization.
// StorageKey locates the bytes in the blob store.
type File struct {
	ID             string    `db:"id"`
	UserID         string    `db:"user_id"`
	OrganizationID string    `db:"organization_id"`
	Filename       string    `db:"filename"`
	StorageKey     string    `db:"storage_key"`
	ContentType    string    `db:"content_type"`
	SizeBytes      int64     `db:"size_bytes"`
	UploadedAt     time.Time `db:"uploaded_at"`
}
