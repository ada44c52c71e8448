package httpdto

import (
	"time"

	"wavechat/internal/domain/apikey"
)

type UsageRecordResponse struct {
	ID         string    `json:"id"`
	Endpoint   string    `json:"endpoint"`
	Method     string    `json:"method"`
	StatusCode int       `json:"status_code"`
	CreatedAt  time.Time `json:"created_at"`
}

type ActivityRecordResponse struct {
	ID           string    `json:"id"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type,omitempty"`
	ResourceID   string    `json:"resource_id,omitempty"`
	Metadata     string    `json:"metadata,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func FromUsageRecordSlice(items []apikey.UsageRecord) []UsageRecordResponse {
	res := make([]UsageRecordResponse, 0, len(items))
	for _, r := range items {
		res = append(res, UsageRecordResponse{
			ID:         r.ID.String(),
			Endpoint:   r.Endpoint,
			Method:     r.Method,
			StatusCode: r.StatusCode,
			CreatedAt:  r.CreatedAt,
		})
	}
	return res
}

func FromActivityRecordSlice(items []apikey.ActivityRecord) []ActivityRecordResponse {
	res := make([]ActivityRecordResponse, 0, len(items))
	for _, r := range items {
		res = append(res, ActivityRecordResponse{
			ID:           r.ID.String(),
			Action:       r.Action,
			ResourceType: r.ResourceType,
			ResourceID:   r.ResourceID,
			Metadata:     r.Metadata,
			CreatedAt:    r.CreatedAt,
		})
	}
	return res
}
