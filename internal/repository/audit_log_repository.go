package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

// 空の項目は絞り込みに使わない
type AuditLogFilter struct {
	Actor        string
	Action       model.AuditAction
	ResourceType model.AuditResourceType
	ResourceID   int64
	From         *time.Time
	To           *time.Time
	Page         int
	Limit        int
}

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	// 新しい順。totalはページング前の件数
	List(ctx context.Context, f AuditLogFilter) ([]model.AuditLog, int64, error)
}
