// Package memory implementa el directorio en memoria (tests y desarrollo local).
package memory

import (
	"context"
	"sync"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/domain/repository"
)

// Directory guarda tenants por nombre. Los conteos de usuarios son fijos
// (no hay auth.users acá); se setean con SetUserCount.
type Directory struct {
	mu      sync.RWMutex
	byName  map[string]repository.Tenant
	users   int64
	failErr error
}

var (
	_ repository.TenantRepository = (*Directory)(nil)
	_ repository.DirectoryStats   = (*Directory)(nil)
)

func NewDirectory(tenants ...repository.Tenant) *Directory {
	d := &Directory{byName: make(map[string]repository.Tenant, len(tenants))}
	for _, t := range tenants {
		d.byName[t.Name] = t
	}
	return d
}

// Put agrega o reemplaza un tenant.
func (d *Directory) Put(t repository.Tenant) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byName[t.Name] = t
}

func (d *Directory) SetUserCount(n int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users = n
}

// FailWith hace que todas las lecturas devuelvan err (nil para restaurar).
func (d *Directory) FailWith(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failErr = err
}

func (d *Directory) GetByName(_ context.Context, appName string) (*repository.Tenant, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.failErr != nil {
		return nil, d.failErr
	}
	t, ok := d.byName[appName]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (d *Directory) GetCredential(_ context.Context, clientID string) (*repository.ClientCredential, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.failErr != nil {
		return nil, d.failErr
	}
	for _, t := range d.byName {
		if t.ClientID == clientID {
			return &repository.ClientCredential{ClientID: t.ClientID, SecretHash: t.ClientSecretHash, AppName: t.Name}, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (d *Directory) CountUsers(context.Context) (int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.failErr != nil {
		return 0, d.failErr
	}
	return d.users, nil
}

func (d *Directory) CountApplications(context.Context) (int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.failErr != nil {
		return 0, d.failErr
	}
	return int64(len(d.byName)), nil
}
