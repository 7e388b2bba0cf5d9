package auth

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/config"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/errs"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/repository"
	dto "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/dto/auth"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/observability/logger"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/provider"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/tenant"
)

// IdentityDeps son las dependencias de register, login y magic link.
type IdentityDeps struct {
	Tenants   tenant.Resolver
	Providers provider.Factory
	// ConfirmPolicy es REGISTER_NO_CONFIRMATION_EMAIL sin parsear; se valida
	// en cada registro para que un valor inválido falle al usarse.
	ConfirmPolicy string
}

type identityService struct {
	deps IdentityDeps
}

var (
	_ RegisterService  = (*identityService)(nil)
	_ LoginService     = (*identityService)(nil)
	_ MagicLinkService = (*identityService)(nil)
)

func newIdentityService(deps IdentityDeps) *identityService {
	return &identityService{deps: deps}
}

func NewRegisterService(deps IdentityDeps) RegisterService   { return newIdentityService(deps) }
func NewLoginService(deps IdentityDeps) LoginService         { return newIdentityService(deps) }
func NewMagicLinkService(deps IdentityDeps) MagicLinkService { return newIdentityService(deps) }

// gateway valida que el tenant pedido sea el de la aplicación autenticada,
// lo resuelve y construye el gateway de ese tenant.
func (s *identityService) gateway(ctx context.Context, op, appName, requested string, log *zap.Logger) (provider.Gateway, *repository.Tenant, error) {
	if requested == "" {
		return nil, nil, errs.E(op, errs.ErrMissingTenant, nil)
	}
	if requested != appName {
		log.Warn("client token used for another tenant",
			logger.AppName(appName), logger.Tenant(requested))
		return nil, nil, errs.Ef(op, errs.ErrTenantMismatch, "token for %q used on %q", appName, requested)
	}
	t, err := s.deps.Tenants.Resolve(ctx, requested)
	if err != nil {
		return nil, nil, err
	}
	return s.deps.Providers.ForTenant(t), t, nil
}

func (s *identityService) Register(ctx context.Context, appName string, in dto.CredentialsRequest) (json.RawMessage, error) {
	const op = "RegisterService.Register"
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth.register"), logger.Op(op))

	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		return nil, errs.E(op, errs.ErrMissingFields, nil)
	}

	gw, t, err := s.gateway(ctx, op, appName, in.Tenant(), log)
	if err != nil {
		return nil, err
	}
	log = log.With(logger.Tenant(t.Name))

	confirm, err := config.ParseConfirmPolicy(s.deps.ConfirmPolicy)
	if err != nil {
		log.Error("register confirmation policy misconfigured", logger.Err(err))
		return nil, err
	}

	rec, err := gw.CreateUser(ctx, in.Email, in.Password, confirm)
	if err != nil {
		logFailure(log, "create user failed", err)
		return nil, err
	}
	log.Info("user registered", logger.UserID(rec.ID))
	return rec.Raw, nil
}

func (s *identityService) Login(ctx context.Context, appName string, in dto.CredentialsRequest) (json.RawMessage, error) {
	const op = "LoginService.Login"
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth.login"), logger.Op(op))

	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		return nil, errs.E(op, errs.ErrMissingFields, nil)
	}

	gw, t, err := s.gateway(ctx, op, appName, in.Tenant(), log)
	if err != nil {
		return nil, err
	}
	log = log.With(logger.Tenant(t.Name))

	sess, err := gw.LoginWithPassword(ctx, in.Email, in.Password)
	if err != nil {
		logFailure(log, "login failed", err)
		return nil, err
	}
	log.Info("user logged in", logger.UserID(sess.UserID))
	return sess.Raw, nil
}

func (s *identityService) Send(ctx context.Context, appName string, in dto.MagicLinkRequest) (*dto.MessageResponse, error) {
	const op = "MagicLinkService.Send"
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth.magic"), logger.Op(op))

	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" {
		return nil, errs.E(op, errs.ErrMissingFields, nil)
	}

	gw, t, err := s.gateway(ctx, op, appName, in.Tenant(), log)
	if err != nil {
		return nil, err
	}

	if err := gw.SendPasswordlessLink(ctx, in.Email); err != nil {
		logFailure(log.With(logger.Tenant(t.Name)), "magic link failed", err)
		return nil, err
	}
	return &dto.MessageResponse{Message: provider.MagicLinkAck}, nil
}

// logFailure: los rechazos esperables (credenciales, duplicado) van a info;
// el resto a error.
func logFailure(log *zap.Logger, msg string, err error) {
	switch errs.KindOf(err) {
	case errs.KindValidation, errs.KindAuthentication, errs.KindConflict, errs.KindNotFound:
		log.Info(msg, logger.String("code", errs.CodeOf(err)))
	default:
		log.Error(msg, logger.Err(err))
	}
}
