package credentials

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/errs"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/repository"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/store/memory"
)

func newDir(t *testing.T, secret string) *memory.Directory {
	t.Helper()
	h, err := Hash(secret, MinCost)
	require.NoError(t, err)
	return memory.NewDirectory(repository.Tenant{Name: "app1", ClientID: "cid-1", ClientSecretHash: h})
}

func TestVerify_OK(t *testing.T) {
	v := NewBcryptVerifier(newDir(t, "s3cret"))
	app, err := v.Verify(context.Background(), "cid-1", "s3cret")
	require.NoError(t, err)
	require.Equal(t, "app1", app)
}

func TestVerify_UnknownIDAndWrongSecretIndistinguishable(t *testing.T) {
	v := NewBcryptVerifier(newDir(t, "s3cret"))
	ctx := context.Background()

	_, errUnknown := v.Verify(ctx, "nope", "s3cret")
	_, errWrong := v.Verify(ctx, "cid-1", "wrong")

	require.ErrorIs(t, errUnknown, errs.ErrInvalidCredentials)
	require.ErrorIs(t, errWrong, errs.ErrInvalidCredentials)
	require.Equal(t, errUnknown.Error(), errWrong.Error())
	require.NotContains(t, errWrong.Error(), "s3cret")
	require.NotContains(t, errWrong.Error(), "wrong")
}

func TestVerify_MissingFields(t *testing.T) {
	v := NewBcryptVerifier(newDir(t, "s3cret"))
	_, err := v.Verify(context.Background(), "", "x")
	require.ErrorIs(t, err, errs.ErrMissingFields)
}

func TestVerify_WeakStoredHashIsConfigurationError(t *testing.T) {
	weak, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	dir := memory.NewDirectory(repository.Tenant{Name: "app1", ClientID: "cid-1", ClientSecretHash: string(weak)})

	_, err = NewBcryptVerifier(dir).Verify(context.Background(), "cid-1", "s3cret")
	require.Equal(t, errs.KindConfiguration, errs.KindOf(err))
}

func TestVerify_DirectoryFailureIsUpstream(t *testing.T) {
	dir := newDir(t, "s3cret")
	dir.FailWith(errors.New("db down"))

	_, err := NewBcryptVerifier(dir).Verify(context.Background(), "cid-1", "s3cret")
	require.Equal(t, errs.KindUpstream, errs.KindOf(err))
}

func TestHash_RejectsLowCostAndEmpty(t *testing.T) {
	_, err := Hash("x", 4)
	require.Error(t, err)
	_, err = Hash("", MinCost)
	require.Error(t, err)

	h, err := Hash("x", MinCost)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	require.Equal(t, MinCost, cost)
}
