package entity

import (
	"time"

	"github.com/shandysiswandi/smartotp/internal/shared/event"
)

type Log struct {
	ID            int64
	OwnerID       int64
	Action        event.AuditAction
	Success       bool
	Details       string
	ErrorMessage  string
	IPAddress     string
	UserAgent     string
	CorrelationID string
	CreatedAt     time.Time
}

type LogListFilter struct {
	OwnerID          int64
	Action           event.AuditAction
	IsFilterByAction bool
	Size             int32
	Offset           int32
}
