// Package jwt implementa los dos dominios de firma del relay:
//
//   - client tokens: emitidos y verificados acá con el secreto de proceso
//     (CLIENT_JWT_SECRET), claims {grant, appName, iat, exp};
//   - user tokens: emitidos por el provider de cada tenant, solo se verifican,
//     siempre con el secreto del tenant.
//
// Los dos secretos nunca se mezclan: VerifyUserToken no tiene fallback global.
package jwt

import (
	"errors"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/errs"
)

// GrantClientCredentials es el valor centinela del claim "grant".
const GrantClientCredentials = "client_credentials"

// DefaultClientTokenTTL es la vida fija del client token.
const DefaultClientTokenTTL = time.Hour

// ClientClaims son las claims del client token.
type ClientClaims struct {
	Grant   string `json:"grant"`
	AppName string `json:"appName"`
	jwtv5.RegisteredClaims
}

// UserClaims es el payload verificado del user token (sub + lo que defina el provider).
type UserClaims map[string]any

// Subject devuelve el claim "sub".
func (c UserClaims) Subject() string {
	s, _ := c["sub"].(string)
	return s
}

// Service emite y verifica tokens. Es seguro para uso concurrente.
type Service struct {
	clientSecret []byte
	ttl          time.Duration
	now          func() time.Time
}

type Option func(*Service)

// WithClock inyecta la fuente de tiempo (tests de expiración).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithClientTokenTTL cambia la vida del client token.
func WithClientTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewService no falla con secreto vacío: el error aparece en el primer uso
// (Issue/VerifyClientToken) como errs.ErrMissingSecret.
func NewService(clientSecret string, opts ...Option) *Service {
	s := &Service{
		clientSecret: []byte(clientSecret),
		ttl:          DefaultClientTokenTTL,
		now:          time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// IssueClientToken firma un client token para appName.
func (s *Service) IssueClientToken(appName string) (string, time.Time, error) {
	const op = "jwt.IssueClientToken"
	if len(s.clientSecret) == 0 {
		return "", time.Time{}, errs.Ef(op, errs.ErrMissingSecret, "CLIENT_JWT_SECRET is not set")
	}
	if strings.TrimSpace(appName) == "" {
		return "", time.Time{}, errs.E(op, errs.ErrInvalidInput, errors.New("empty appName"))
	}

	now := s.now().UTC()
	exp := now.Add(s.ttl)
	claims := ClientClaims{
		Grant:   GrantClientCredentials,
		AppName: appName,
		RegisteredClaims: jwtv5.RegisteredClaims{
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(exp),
		},
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := tk.SignedString(s.clientSecret)
	if err != nil {
		return "", time.Time{}, errs.E(op, errs.ErrInvalidSetting, err)
	}
	return signed, exp, nil
}

// VerifyClientToken valida firma HS256, exp y que grant sea el centinela.
// Cualquier falla es errs.ErrInvalidClientToken.
func (s *Service) VerifyClientToken(token string) (*ClientClaims, error) {
	const op = "jwt.VerifyClientToken"
	if len(s.clientSecret) == 0 {
		return nil, errs.Ef(op, errs.ErrMissingSecret, "CLIENT_JWT_SECRET is not set")
	}

	var claims ClientClaims
	_, err := jwtv5.ParseWithClaims(token, &claims,
		func(*jwtv5.Token) (any, error) { return s.clientSecret, nil },
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errs.E(op, errs.ErrInvalidClientToken, err)
	}
	if claims.Grant != GrantClientCredentials {
		return nil, errs.Ef(op, errs.ErrInvalidClientToken, "unexpected grant %q", claims.Grant)
	}
	if strings.TrimSpace(claims.AppName) == "" {
		return nil, errs.Ef(op, errs.ErrInvalidClientToken, "missing appName")
	}
	return &claims, nil
}

// VerifyUserToken valida un token del provider con el secreto del tenant.
// Secreto vacío es error de configuración: nunca se usa otro secreto.
func (s *Service) VerifyUserToken(token, tenantSecret string) (UserClaims, error) {
	const op = "jwt.VerifyUserToken"
	if tenantSecret == "" {
		return nil, errs.Ef(op, errs.ErrMissingSecret, "tenant signing secret is empty")
	}

	claims := jwtv5.MapClaims{}
	_, err := jwtv5.ParseWithClaims(token, claims,
		func(t *jwtv5.Token) (any, error) {
			if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
				return nil, jwtv5.ErrTokenSignatureInvalid
			}
			return []byte(tenantSecret), nil
		},
		jwtv5.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errs.E(op, errs.ErrInvalidUserToken, err)
	}

	out := make(UserClaims, len(claims))
	for k, v := range claims {
		out[k] = v
	}
	if out.Subject() == "" {
		return nil, errs.Ef(op, errs.ErrInvalidUserToken, "missing sub")
	}
	return out, nil
}
