package usecase

import (
	"context"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// 管理画面の監査ログ閲覧
type AdminAuditUsecase struct {
	logs repo.AuditLogRepository
}

func NewAdminAuditUsecase(logs repo.AuditLogRepository) *AdminAuditUsecase {
	return &AdminAuditUsecase{logs: logs}
}

type AdminAuditListOutput struct {
	Items []model.AuditLog `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func (u *AdminAuditUsecase) List(ctx context.Context, f repo.AuditLogFilter) (AdminAuditListOutput, error) {
	if f.Page < 1 {
		return AdminAuditListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 200 {
		return AdminAuditListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	f.Actor = strings.TrimSpace(f.Actor)
	if len(f.Actor) > 50 {
		return AdminAuditListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid actor")
	}
	f.Action = model.AuditAction(strings.ToUpper(strings.TrimSpace(string(f.Action))))
	if f.Action != "" && !f.Action.Valid() {
		return AdminAuditListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid action")
	}
	f.ResourceType = model.AuditResourceType(strings.ToLower(strings.TrimSpace(string(f.ResourceType))))
	if f.ResourceType != "" && !f.ResourceType.Valid() {
		return AdminAuditListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid resource_type")
	}
	if f.ResourceID < 0 {
		return AdminAuditListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid resource_id")
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return AdminAuditListOutput{}, NewHTTPError(http.StatusBadRequest, "from must be <= to")
	}

	items, total, err := u.logs.List(ctx, f)
	if err != nil {
		return AdminAuditListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return AdminAuditListOutput{Items: items, Total: total, Page: f.Page, Limit: f.Limit}, nil
}
