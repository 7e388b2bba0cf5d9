package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestIs_MatchesByKindAndCode(t *testing.T) {
	err := E("tenant.Resolve", ErrTenantNotFound, errors.New("no rows"))
	wrapped := fmt.Errorf("outer: %w", err)

	if !errors.Is(wrapped, ErrTenantNotFound) {
		t.Fatalf("expected wrapped error to match ErrTenantNotFound")
	}
	if errors.Is(wrapped, ErrProfileNotFound) {
		t.Fatalf("same kind but different code must not match")
	}
	if errors.Is(wrapped, ErrDuplicateUser) {
		t.Fatalf("different kind must not match")
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{E("op", ErrMissingFields, nil), KindValidation},
		{fmt.Errorf("x: %w", E("op", ErrTimeout, nil)), KindUpstream},
		{errors.New("plain"), KindUnknown},
		{nil, KindUnknown},
	}
	for i, c := range cases {
		if got := KindOf(c.err); got != c.want {
			t.Fatalf("case %d: KindOf=%v want %v", i, got, c.want)
		}
	}
}

func TestError_MessageDoesNotNeedCause(t *testing.T) {
	e := E("jwt.VerifyClientToken", ErrInvalidClientToken, nil)
	if got := e.Error(); got != "jwt.VerifyClientToken: authentication: invalid_client_token" {
		t.Fatalf("unexpected message %q", got)
	}
	if CodeOf(e) != "invalid_client_token" {
		t.Fatalf("unexpected code %q", CodeOf(e))
	}
}
