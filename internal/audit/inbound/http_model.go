package inbound

import "time"

type LogResponse struct {
	ID            int64     `json:"id,string"`
	Action        string    `json:"action" example:"OTP_VERIFIED"`
	Success       bool      `json:"success"`
	Details       string    `json:"details" example:"Acme - bob@example.com"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	IPAddress     string    `json:"ip_address,omitempty"`
	UserAgent     string    `json:"user_agent,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type LogsResponse struct {
	Logs  []LogResponse `json:"logs"`
	page  int32
	size  int32
	total int64
}

func (r LogsResponse) Meta() map[string]any {
	return map[string]any{
		"page":  r.page,
		"size":  r.size,
		"total": r.total,
	}
}
