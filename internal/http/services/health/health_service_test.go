package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/repository"
	dto "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/dto/health"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/store/memory"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/util/retry"
)

func TestCheck(t *testing.T) {
	dir := memory.NewDirectory(repository.Tenant{Name: "app1"}, repository.Tenant{Name: "app2"})
	svc := NewHealthService(Deps{Stats: dir, Retry: retry.Policy{MaxTries: 1}})

	res := svc.Check(context.Background())
	require.Equal(t, dto.StatusUnavailable, res.Status)
	require.EqualValues(t, 0, res.Checks["users"])
	require.EqualValues(t, 2, res.Checks["applications"])

	dir.SetUserCount(7)
	res = svc.Check(context.Background())
	require.Equal(t, dto.StatusOK, res.Status)
	require.EqualValues(t, 7, res.Checks["users"])
}

func TestCheck_NoApplications(t *testing.T) {
	dir := memory.NewDirectory()
	dir.SetUserCount(3)
	res := NewHealthService(Deps{Stats: dir}).Check(context.Background())
	require.Equal(t, dto.StatusUnavailable, res.Status)
}

func TestCheck_DirectoryDown(t *testing.T) {
	dir := memory.NewDirectory(repository.Tenant{Name: "app1"})
	dir.SetUserCount(1)
	dir.FailWith(errors.New("connection refused"))

	res := NewHealthService(Deps{Stats: dir, Retry: retry.Policy{MaxTries: 2}}).Check(context.Background())
	require.Equal(t, dto.StatusUnavailable, res.Status)
	require.Equal(t, "error", res.Checks["users"])
	require.Equal(t, "error", res.Checks["applications"])
}
