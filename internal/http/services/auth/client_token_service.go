package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/errs"
	dto "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/dto/auth"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/metrics"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/observability/logger"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/security/credentials"
)

type ClientTokenDeps struct {
	Verifier credentials.Verifier
	Tokens   TokenIssuer
	Now      func() time.Time
}

type clientTokenService struct {
	deps ClientTokenDeps
}

func NewClientTokenService(deps ClientTokenDeps) ClientTokenService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &clientTokenService{deps: deps}
}

func (s *clientTokenService) Issue(ctx context.Context, in dto.ClientTokenRequest) (*dto.ClientTokenResponse, error) {
	const op = "ClientTokenService.Issue"
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.client_token"),
		logger.Op(op),
	)

	in.ClientID = strings.TrimSpace(in.ClientID)
	if in.ClientID == "" || in.ClientSecret == "" {
		return nil, errs.E(op, errs.ErrMissingFields, nil)
	}
	log = log.With(logger.ClientID(in.ClientID))

	appName, err := s.deps.Verifier.Verify(ctx, in.ClientID, in.ClientSecret)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidCredentials) {
			metrics.ClientTokensIssued.WithLabelValues("invalid_credentials").Inc()
			log.Info("client credentials rejected")
		} else {
			metrics.ClientTokensIssued.WithLabelValues("error").Inc()
			log.Error("client credential verification failed", logger.Err(err))
		}
		return nil, err
	}

	token, exp, err := s.deps.Tokens.IssueClientToken(appName)
	if err != nil {
		metrics.ClientTokensIssued.WithLabelValues("error").Inc()
		log.Error("client token issue failed", logger.AppName(appName), logger.Err(err))
		return nil, err
	}

	metrics.ClientTokensIssued.WithLabelValues("ok").Inc()
	log.Info("client token issued", logger.AppName(appName))
	return &dto.ClientTokenResponse{
		ClientJWT: token,
		TokenType: "Bearer",
		ExpiresIn: int64(exp.Sub(s.deps.Now()).Round(time.Second).Seconds()),
	}, nil
}
