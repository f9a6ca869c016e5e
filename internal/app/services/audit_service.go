package services

import (
	"context"

	"github.com/yigit/iams/internal/pkg/audit"
)

// Audit listing bounds
const (
	DefaultAuditLimit = 50
	MaxAuditLimit     = 200
)

// AuditService reads the audit trail
type AuditService struct {
	recorder audit.Recorder
}

func NewAuditService(recorder audit.Recorder) *AuditService {
	return &AuditService{recorder: recorder}
}

// List returns the newest entries; limit is clamped to 1..MaxAuditLimit
func (s *AuditService) List(ctx context.Context, limit int) ([]audit.Entry, error) {
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	if limit > MaxAuditLimit {
		limit = MaxAuditLimit
	}
	return s.recorder.Recent(ctx, limit)
}
