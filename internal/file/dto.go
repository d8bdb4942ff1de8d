// AngelaMos | 2026
// dto.go

package file

import (
	"time"
)

type FileResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Filename       string    `json:"filename"`
	ContentType    string    `json:"content_type"`
	SizeBytes      int64     `json:"size_bytes"`
	UploadedAt     time.Time `json:"uploaded_at"`
	DownloadURL    string    `json:"download_url"`
}

func ToFileResponse(f *File) FileResponse {
	return FileResponse{
		ID:             f.ID,
		OrganizationID: f.OrganizationID,
		Filename:       f.Filename,
		ContentType:    f.ContentType,
		SizeBytes:      f.SizeBytes,
		UploadedAt:     f.UploadedAt,
		DownloadURL:    "/v1/files/" + f.ID + "/download",
	}
}

func ToFileResponseList(files []File) []FileResponse {
	out := make([]FileResponse, 0, len(files))
	for i := range files {
		out = append(out, ToFileResponse(&files[i]))
	}
	return out
}
