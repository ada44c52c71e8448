package httpdto

import (
	"time"

	"wavechat/internal/domain/file"
)

type FileResponse struct {
	ID               string    `json:"id"`
	FileName         string    `json:"file_name"`
	FileType         string    `json:"file_type,omitempty"`
	MimeType         string    `json:"mime_type,omitempty"`
	SizeBytes        int64     `json:"size_bytes"`
	Bucket           string    `json:"bucket,omitempty"`
	ProcessingStatus string    `json:"processing_status"`
	ChatID           string    `json:"chat_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type ExtractResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func FromFile(f file.Upload) FileResponse {
	res := FileResponse{
		ID:               f.ID.String(),
		FileName:         f.FileName,
		FileType:         f.FileType,
		MimeType:         f.MimeType,
		SizeBytes:        f.SizeBytes,
		Bucket:           f.Bucket,
		ProcessingStatus: f.ProcessingStatus,
		CreatedAt:        f.CreatedAt,
	}
	if f.ChatID.Valid {
		res.ChatID = f.ChatID.UUID.String()
	}
	return res
}

func FromFileSlice(items []file.Upload) []FileResponse {
	res := make([]FileResponse, 0, len(items))
	for _, f := range items {
		res = append(res, FromFile(f))
	}
	return res
}
