// Package supabase implementa provider.Gateway sobre la API HTTP de un
// proyecto Supabase: GoTrue (/auth/v1) para identidad y PostgREST (/rest/v1)
// para la tabla profiles.
package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/errs"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/repository"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/metrics"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/observability/logger"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/provider"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/util/retry"
)

// Códigos de GoTrue que indican email ya registrado.
var duplicateCodes = map[string]struct{}{
	"email_exists":        {},
	"user_already_exists": {},
	"phone_exists":        {},
}

// uniqueViolation es el SQLSTATE de PostgREST para PK/unique duplicada.
const uniqueViolation = "23505"

const profileColumns = "id,display_name,is_admin,created_at"

type Options struct {
	// HTTPClient se comparte entre tenants: no guarda estado de tenant.
	HTTPClient *http.Client
	// Timeout por llamada al provider (default 5s).
	Timeout time.Duration
	// ProfilesTable es la tabla de perfiles en el schema público (default "profiles").
	ProfilesTable string
	// StrictProfileProvisioning: si la creación del perfil falla en el login,
	// el login falla (true) o se loguea y continúa (false).
	StrictProfileProvisioning bool
	// Retry aplica solo a lecturas idempotentes (select de profiles).
	Retry retry.Policy
	Now   func() time.Time
}

type Factory struct {
	opts Options
}

var _ provider.Factory = (*Factory)(nil)

func NewFactory(opts Options) *Factory {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.ProfilesTable == "" {
		opts.ProfilesTable = "profiles"
	}
	if opts.Retry.MaxTries == 0 {
		opts.Retry = retry.Default
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Factory{opts: opts}
}

// ForTenant construye un gateway para el tenant. Barato: no abre conexiones.
func (f *Factory) ForTenant(t *repository.Tenant) provider.Gateway {
	return &Gateway{
		tenant:     t.Name,
		baseURL:    trimBase(t.ProviderURL),
		serviceKey: t.ServiceKey,
		anonKey:    t.AnonKey,
		opts:       f.opts,
	}
}

// Gateway opera contra el proyecto Supabase de un único tenant.
type Gateway struct {
	tenant     string
	baseURL    string
	serviceKey string
	anonKey    string
	opts       Options
}

var _ provider.Gateway = (*Gateway)(nil)

func (g *Gateway) log(ctx context.Context, op string) *zap.Logger {
	return logger.From(ctx).With(logger.Layer("gateway"), logger.Op(op), logger.Tenant(g.tenant))
}

// CreateUser usa la admin API (service_role). confirm se envía como email_confirm.
func (g *Gateway) CreateUser(ctx context.Context, email, password string, confirm bool) (*provider.UserRecord, error) {
	const op = "supabase.CreateUser"

	var raw json.RawMessage
	err := g.do(ctx, request{
		op:     "auth.admin_create_user",
		method: http.MethodPost,
		path:   "/auth/v1/admin/users",
		key:    g.serviceKey,
		body: map[string]any{
			"email":         email,
			"password":      password,
			"email_confirm": confirm,
		},
	}, &raw)
	if err != nil {
		if ae, ok := asAPIError(err); ok {
			if _, dup := duplicateCodes[ae.ErrorCode]; dup || ae.Status == http.StatusConflict {
				return nil, errs.E(op, errs.ErrDuplicateUser, ae)
			}
			if ae.clientError() && ae.Status != http.StatusTooManyRequests {
				return nil, errs.E(op, errs.ErrProviderRejected, ae)
			}
		}
		return nil, upstream(op, err)
	}

	var u struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		// algunas versiones devuelven {"user": {...}}
		User *struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, errs.E(op, errs.ErrProvider, err)
	}
	rec := &provider.UserRecord{ID: u.ID, Email: u.Email, Raw: raw}
	if rec.ID == "" && u.User != nil {
		rec.ID, rec.Email = u.User.ID, u.User.Email
	}
	if rec.ID == "" {
		return nil, errs.Ef(op, errs.ErrProvider, "create user response without id")
	}
	return rec, nil
}

// LoginWithPassword hace el grant password con la anon key y después
// garantiza la fila de profiles (ver ensureProfile).
func (g *Gateway) LoginWithPassword(ctx context.Context, email, password string) (*provider.Session, error) {
	const op = "supabase.LoginWithPassword"
	log := g.log(ctx, op)

	var raw json.RawMessage
	err := g.do(ctx, request{
		op:     "auth.token_password",
		method: http.MethodPost,
		path:   "/auth/v1/token?grant_type=password",
		key:    g.anonKey,
		body:   map[string]string{"email": email, "password": password},
	}, &raw)
	if err != nil {
		if ae, ok := asAPIError(err); ok && ae.clientError() && ae.Status != http.StatusTooManyRequests {
			return nil, errs.E(op, errs.ErrInvalidCredentials, ae)
		}
		return nil, upstream(op, err)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, errs.E(op, errs.ErrProvider, err)
	}
	if tok.User.ID == "" {
		return nil, errs.Ef(op, errs.ErrProvider, "token response without user id")
	}

	sess := &provider.Session{UserID: tok.User.ID, AccessToken: tok.AccessToken, Raw: raw}

	if err := g.ensureProfile(ctx, tok.User.ID, email); err != nil {
		metrics.ProfilesProvisioned.WithLabelValues("failed").Inc()
		if g.opts.StrictProfileProvisioning {
			log.Error("profile provisioning failed, rejecting login", logger.UserID(tok.User.ID), logger.Err(err))
			return nil, errs.E(op, errs.ErrProvider, err)
		}
		log.Error("profile provisioning failed, login continues", logger.UserID(tok.User.ID), logger.Err(err))
	}
	return sess, nil
}

// ensureProfile crea la fila de profiles si no existe. Idempotente: el insert
// usa on_conflict=id + ignore-duplicates, y un 409/23505 cuenta como "ya existe",
// así dos logins concurrentes no pueden crear dos filas.
func (g *Gateway) ensureProfile(ctx context.Context, userID, email string) error {
	const op = "supabase.ensureProfile"

	_, err := g.FetchProfile(ctx, userID)
	switch {
	case err == nil:
		metrics.ProfilesProvisioned.WithLabelValues("exists").Inc()
		return nil
	case !errors.Is(err, errs.ErrProfileNotFound):
		return err
	}

	q := url.Values{}
	q.Set("on_conflict", "id")
	err = g.do(ctx, request{
		op:     "rest.insert_profile",
		method: http.MethodPost,
		path:   "/rest/v1/" + url.PathEscape(g.opts.ProfilesTable) + "?" + q.Encode(),
		key:    g.serviceKey,
		body: provider.Profile{
			ID:          userID,
			DisplayName: email,
			IsAdmin:     false,
			CreatedAt:   g.opts.Now().UTC(),
		},
		headers: map[string]string{"Prefer": "resolution=ignore-duplicates,return=minimal"},
	}, nil)
	if err != nil {
		if ae, ok := asAPIError(err); ok && (ae.Status == http.StatusConflict || ae.pgCode() == uniqueViolation) {
			metrics.ProfilesProvisioned.WithLabelValues("exists").Inc()
			return nil
		}
		return upstream(op, err)
	}
	metrics.ProfilesProvisioned.WithLabelValues("created").Inc()
	return nil
}

// SendPasswordlessLink pide a GoTrue que envíe el magic link. El resultado
// visible para el cliente es siempre provider.MagicLinkAck.
func (g *Gateway) SendPasswordlessLink(ctx context.Context, email string) error {
	const op = "supabase.SendPasswordlessLink"

	err := g.do(ctx, request{
		op:     "auth.otp",
		method: http.MethodPost,
		path:   "/auth/v1/otp",
		key:    g.anonKey,
		body:   map[string]any{"email": email, "create_user": true},
	}, nil)
	if err != nil {
		if ae, ok := asAPIError(err); ok && ae.clientError() {
			return errs.E(op, errs.ErrProviderRejected, ae)
		}
		return upstream(op, err)
	}
	return nil
}

// FetchProfile lee la fila de profiles con PK = userID. userID debe ser el id
// del usuario en el provider (claim "sub"), que es un UUID.
func (g *Gateway) FetchProfile(ctx context.Context, userID string) (*provider.Profile, error) {
	const op = "supabase.FetchProfile"
	if _, err := uuid.Parse(userID); err != nil {
		return nil, errs.E(op, errs.ErrInvalidInput, err)
	}

	q := url.Values{}
	q.Set("select", profileColumns)
	q.Set("id", "eq."+userID)
	q.Set("limit", "1")
	path := "/rest/v1/" + url.PathEscape(g.opts.ProfilesTable) + "?" + q.Encode()

	rows, err := retry.Do(ctx, op, g.opts.Retry, func() ([]provider.Profile, error) {
		var rows []provider.Profile
		err := g.do(ctx, request{
			op:     "rest.select_profile",
			method: http.MethodGet,
			path:   path,
			key:    g.serviceKey,
		}, &rows)
		if ae, ok := asAPIError(err); ok && ae.clientError() {
			return nil, retry.Permanent(errs.E(op, errs.ErrProvider, ae))
		}
		return rows, err
	})
	if err != nil {
		return nil, upstream(op, err)
	}
	if len(rows) == 0 {
		return nil, errs.E(op, errs.ErrProfileNotFound, nil)
	}
	return &rows[0], nil
}
