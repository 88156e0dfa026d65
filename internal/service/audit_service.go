package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
)

const defaultAuditLimit = 100

type auditSink interface {
	Append(entry models.AuditEntry) error
	Recent(limit int) ([]models.AuditEntry, error)
}

type auditDropRecorder interface {
	AuditDropped()
}

// AuditService records analytics access asynchronously. Recording never blocks the caller: when the buffer
// is full the entry is dropped and counted.
type AuditService struct {
	sink    auditSink
	logger  *zap.Logger
	metrics auditDropRecorder
	now     func() time.Time

	mu      sync.RWMutex
	closed  bool
	entries chan models.AuditEntry
	done    chan struct{}
}

// NewAuditService starts the background writer.
func NewAuditService(sink auditSink, bufferSize int, logger *zap.Logger, metrics *MetricsService) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bufferSize <= 0 {
		bufferSize = 256
	}
	s := &AuditService{
		sink:    sink,
		logger:  logger,
		now:     time.Now,
		entries: make(chan models.AuditEntry, bufferSize),
		done:    make(chan struct{}),
	}
	if metrics != nil {
		s.metrics = metrics
	}
	go s.run()
	return s
}

// Record queues entry for writing, filling in its id and timestamp.
func (s *AuditService) Record(entry models.AuditEntry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now().UTC()
	}
	if entry.Parameters == nil {
		entry.Parameters = map[string]interface{}{}
	}
	if entry.Metadata == nil {
		entry.Metadata = map[string]interface{}{}
	}

	status := "SUCCESS"
	if !entry.Success {
		status = "FAILURE"
	}
	s.logger.Info("analytics_audit",
		zap.String("endpoint", entry.Endpoint),
		zap.String("action", entry.Action),
		zap.String("user_id", entry.UserID),
		zap.String("user_role", entry.UserRole),
		zap.String("status", status),
	)

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.logger.Warn("audit service closed, entry discarded", zap.String("endpoint", entry.Endpoint))
		return
	}
	select {
	case s.entries <- entry:
	default:
		s.logger.Warn("audit buffer full, entry dropped", zap.String("endpoint", entry.Endpoint))
		if s.metrics != nil {
			s.metrics.AuditDropped()
		}
	}
}

// Recent returns the latest entries, newest first.
func (s *AuditService) Recent(limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	return s.sink.Recent(limit)
}

// Close stops accepting entries and waits for queued ones to be written.
func (s *AuditService) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.entries)
	s.mu.Unlock()
	<-s.done
}

func (s *AuditService) run() {
	defer close(s.done)
	for entry := range s.entries {
		if err := s.sink.Append(entry); err != nil {
			s.logger.Error("failed to write audit entry", zap.String("endpoint", entry.Endpoint), zap.Error(err))
		}
	}
}
