package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/security/credentials"
	"github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/store/pg"
	migrations "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/migrations/postgres"
)

// hash-secret: genera el bcrypt que va en applications.client_secret_hash.
func newHashSecretCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-secret <secret>",
		Short: "Hashea un client secret con bcrypt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := credentials.Hash(args[0], cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", credentials.MinCost, "Costo bcrypt (mínimo 10)")
	return cmd
}

func newClientTokenCmd(cl *client) *cobra.Command {
	var id, secret string
	cmd := &cobra.Command{
		Use:   "client-token",
		Short: "Cambia client credentials por un client token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == "" || secret == "" {
				return errors.New("--client-id y --client-secret son requeridos")
			}
			status, body, err := cl.do(http.MethodPost, "/auth/client-token",
				map[string]string{"clientId": id, "clientSecret": secret}, nil)
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("client-token fallo: status=%d body=%s", status, string(body))
			}
			if cl.OutFormat == "text" {
				var res struct {
					ClientJWT string `json:"client_jwt"`
				}
				if err := json.Unmarshal(body, &res); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), res.ClientJWT)
				return nil
			}
			cl.print(cmd.OutOrStdout(), status, body)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "client-id", envOr("RELAY_CLIENT_ID", ""), "Client id (env RELAY_CLIENT_ID)")
	cmd.Flags().StringVar(&secret, "client-secret", envOr("RELAY_CLIENT_SECRET", ""), "Client secret (env RELAY_CLIENT_SECRET)")
	return cmd
}

// ping: GET /ping con un user token del provider del tenant.
func newPingCmd(cl *client) *cobra.Command {
	var tenantName, token string
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Verifica un user token contra el tenant (GET /ping)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if tenantName == "" || token == "" {
				return errors.New("--tenant y --token son requeridos")
			}
			q := url.Values{"tenantName": {tenantName}}
			status, body, err := cl.do(http.MethodGet, "/ping?"+q.Encode(), nil,
				map[string]string{"Authorization": "Bearer " + token})
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("ping fallo: status=%d body=%s", status, string(body))
			}
			cl.print(cmd.OutOrStdout(), status, body)
			return nil
		},
	}
	cmd.Flags().StringVar(&tenantName, "tenant", "", "Nombre del tenant")
	cmd.Flags().StringVar(&token, "token", envOr("RELAY_USER_TOKEN", ""), "User token (env RELAY_USER_TOKEN)")
	return cmd
}

func newHealthCmd(cl *client) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Consulta GET /health",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do(http.MethodGet, "/health", nil, nil)
			if err != nil {
				return err
			}
			cl.print(cmd.OutOrStdout(), status, body)
			if status != http.StatusOK {
				return fmt.Errorf("relay unhealthy: status=%d", status)
			}
			return nil
		},
	}
}

// migrate directory|tenant: aplica los scripts embebidos.
func newMigrateCmd() *cobra.Command {
	var dsn string
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:       "migrate <directory|tenant>",
		Short:     "Aplica las migraciones embebidas al directorio o a un proyecto tenant",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"directory", "tenant"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				return errors.New("--dsn es requerido")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			pool, err := pgxpool.New(ctx, dsn)
			if err != nil {
				return fmt.Errorf("pgxpool: %w", err)
			}
			defer pool.Close()

			var n int
			switch args[0] {
			case "directory":
				n, err = pg.RunMigrations(ctx, pool, migrations.DirectoryFS, migrations.DirectoryDir, "directory")
			case "tenant":
				n, err = pg.RunMigrations(ctx, pool, migrations.TenantFS, migrations.TenantDir, "tenant")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", envOr("DIRECTORY_DSN", ""), "DSN de Postgres (env DIRECTORY_DSN)")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Timeout total")
	return cmd
}
