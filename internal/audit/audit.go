// Package audit provides a fire-and-forget audit sink. A failed audit write
// must never fail or roll back the mutation that produced it; failures are
// logged and counted, nothing more.
package audit

import (
	"encoding/json"

	"github.com/bylinehq/integrity-engine/internal/metrics"
	"github.com/bylinehq/integrity-engine/internal/models"
	"github.com/bylinehq/integrity-engine/pkg/logger"
)

// Writer is the persistence surface the sink needs.
type Writer interface {
	Create(entry *models.AuditLog) error
}

// Sink writes audit trail entries.
type Sink struct {
	writer Writer
	log    *logger.Logger
}

// NewSink creates a new audit sink.
func NewSink(writer Writer, log *logger.Logger) *Sink {
	return &Sink{writer: writer, log: log}
}

// Entry is one audit record.
type Entry struct {
	UserID   string
	Action   string
	Entity   string
	EntityID *uint
	Details  map[string]interface{}
}

// Log records an audit entry. It never returns an error.
func (s *Sink) Log(entry Entry) {
	var details json.RawMessage
	if entry.Details != nil {
		data, err := json.Marshal(entry.Details)
		if err != nil {
			s.log.Warn().Err(err).Str("action", entry.Action).Msg("Failed to marshal audit details")
		} else {
			details = data
		}
	}

	row := &models.AuditLog{
		UserID:   entry.UserID,
		Action:   entry.Action,
		Entity:   entry.Entity,
		EntityID: entry.EntityID,
		Details:  details,
	}

	if err := s.writer.Create(row); err != nil {
		metrics.RecordAuditWriteFailure()
		s.log.Error().
			Err(err).
			Str("action", entry.Action).
			Str("entity", entry.Entity).
			Msg("Failed to write audit log")
	}
}
