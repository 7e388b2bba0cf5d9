package pg

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/observability/logger"
)

// migrationLockID deriva un ID estable para pg_advisory_lock a partir del scope.
func migrationLockID(scope string) int64 {
	h := sha256.Sum256([]byte("relay_migration:" + scope))
	return int64(binary.BigEndian.Uint64(h[:8]))
}

// RunMigrations aplica todos los *_up.sql de dir dentro de fsys, en orden
// lexicográfico, bajo un advisory lock para que dos procesos no migren a la vez.
// Devuelve cuántos scripts se aplicaron. Los scripts deben ser idempotentes.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, dir, scope string) (int, error) {
	log := logger.From(ctx).With(logger.Component("migrate"), logger.String("scope", scope))
	lockID := migrationLockID(scope)

	lockCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	conn, err := pool.Acquire(lockCtx)
	if err != nil {
		return 0, fmt.Errorf("pg: acquire conn for migration: %w", err)
	}
	defer conn.Release()

	// El lock es de sesión: se toma y se suelta en la misma conexión.
	if _, err := conn.Exec(lockCtx, "SELECT pg_advisory_lock($1)", lockID); err != nil {
		return 0, fmt.Errorf("pg: migration lock %s: %w", scope, err)
	}
	defer func() {
		if _, err := conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", lockID); err != nil {
			log.Warn("failed to release migration lock", logger.Err(err))
		}
	}()

	files, err := migrationFiles(fsys, dir)
	if err != nil {
		return 0, err
	}

	var applied int
	for _, f := range files {
		b, err := fs.ReadFile(fsys, f)
		if err != nil {
			return applied, err
		}
		if _, err := conn.Exec(ctx, string(b)); err != nil {
			return applied, fmt.Errorf("pg: exec %s: %w", f, err)
		}
		log.Info("migration applied", logger.String("file", f))
		applied++
	}
	return applied, nil
}

func migrationFiles(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(strings.ToLower(e.Name()), "_up.sql") {
			files = append(files, path.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
