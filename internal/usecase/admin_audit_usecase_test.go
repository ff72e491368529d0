package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdminAudit_List_Validation(t *testing.T) {
	from := testNow
	to := testNow.Add(-time.Hour)

	cases := []struct {
		name string
		f    repo.AuditLogFilter
		want string
	}{
		{"page", repo.AuditLogFilter{Page: 0, Limit: 10}, "invalid page"},
		{"limit", repo.AuditLogFilter{Page: 1, Limit: 500}, "invalid limit"},
		{"action", repo.AuditLogFilter{Page: 1, Limit: 10, Action: "DROP_TABLE"}, "invalid action"},
		{"resource type", repo.AuditLogFilter{Page: 1, Limit: 10, ResourceType: "user"}, "invalid resource_type"},
		{"resource id", repo.AuditLogFilter{Page: 1, Limit: 10, ResourceID: -1}, "invalid resource_id"},
		{"range", repo.AuditLogFilter{Page: 1, Limit: 10, From: &from, To: &to}, "from must be <= to"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logs := new(AuditRepoMock)
			uc := usecase.NewAdminAuditUsecase(logs)

			_, err := uc.List(context.Background(), tc.f)
			assertErrContains(t, err, tc.want)

			he, ok := usecase.AsHTTPError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, he.Status)
			logs.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
		})
	}
}

func TestAdminAudit_List_NormalizesFilter(t *testing.T) {
	logs := new(AuditRepoMock)
	uc := usecase.NewAdminAuditUsecase(logs)

	want := repo.AuditLogFilter{
		Page: 2, Limit: 20,
		Actor:        "admin",
		Action:       model.AuditActionUpdateStock,
		ResourceType: model.AuditResourceVariant,
	}
	items := []model.AuditLog{{ID: 3, Actor: "admin", Action: model.AuditActionUpdateStock}}
	logs.On("List", mock.Anything, want).Return(items, int64(21), nil).Once()

	out, err := uc.List(context.Background(), repo.AuditLogFilter{
		Page: 2, Limit: 20,
		Actor:        " admin ",
		Action:       "update_stock",
		ResourceType: "Variant",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(21), out.Total)
	assert.Equal(t, 2, out.Page)
	assert.Len(t, out.Items, 1)
	logs.AssertExpectations(t)
}

func TestAdminAudit_List_DBError(t *testing.T) {
	logs := new(AuditRepoMock)
	logs.On("List", mock.Anything, mock.Anything).Return(nil, int64(0), errors.New("boom"))

	_, err := usecase.NewAdminAuditUsecase(logs).List(context.Background(), repo.AuditLogFilter{Page: 1, Limit: 10})
	assertErrContains(t, err, "db error")
}
