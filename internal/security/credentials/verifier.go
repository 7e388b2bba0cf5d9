// Package credentials verifica el par client_id / client_secret de una aplicación.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/errs"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/repository"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/observability/logger"
)

// MinCost es el costo bcrypt mínimo aceptado para hashes almacenados.
const MinCost = 10

// dummyHash se compara cuando el client_id no existe, para que "id desconocido"
// y "secret incorrecto" cuesten lo mismo.
var (
	dummyOnce sync.Once
	dummyHash []byte
)

func burnCompare(secret string) {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("relay-dummy-client-secret"), MinCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(secret))
}

// Verifier es el contrato del verificador de credenciales de cliente.
type Verifier interface {
	Verify(ctx context.Context, clientID, clientSecret string) (appName string, err error)
}

type BcryptVerifier struct {
	repo repository.TenantRepository
}

var _ Verifier = (*BcryptVerifier)(nil)

func NewBcryptVerifier(repo repository.TenantRepository) *BcryptVerifier {
	return &BcryptVerifier{repo: repo}
}

// Verify devuelve el application_name asociado al client_id.
// Falla con errs.ErrInvalidCredentials tanto si el id no existe como si el
// secret no coincide; el error no distingue ambos casos.
func (v *BcryptVerifier) Verify(ctx context.Context, clientID, clientSecret string) (string, error) {
	const op = "credentials.Verify"
	log := logger.From(ctx).With(logger.Component("credentials"), logger.Op(op), logger.ClientID(clientID))

	if clientID == "" || clientSecret == "" {
		return "", errs.E(op, errs.ErrMissingFields, nil)
	}

	cred, err := v.repo.GetCredential(ctx, clientID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		burnCompare(clientSecret)
		return "", errs.E(op, errs.ErrInvalidCredentials, nil)
	case err != nil:
		return "", errs.E(op, errs.ErrProvider, err)
	}

	hash := []byte(cred.SecretHash)
	cost, err := bcrypt.Cost(hash)
	if err != nil || cost < MinCost {
		// Hash corrupto o débil: es un problema del directorio, no del cliente.
		log.Error("stored client secret hash unusable", logger.Int("cost", cost), logger.Err(err))
		burnCompare(clientSecret)
		return "", errs.Ef(op, errs.ErrInvalidSetting, "client secret hash for %s below cost %d", clientID, MinCost)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(clientSecret)); err != nil {
		return "", errs.E(op, errs.ErrInvalidCredentials, nil)
	}
	return cred.AppName, nil
}

// Hash genera un hash almacenable para un client secret.
func Hash(secret string, cost int) (string, error) {
	if secret == "" {
		return "", errors.New("credentials: empty secret")
	}
	if cost < MinCost {
		return "", fmt.Errorf("credentials: bcrypt cost %d below minimum %d", cost, MinCost)
	}
	b, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
