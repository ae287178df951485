// Package pg connects to PostgreSQL with github.com/jackc/pgx/v5 and applies
// schema migrations with github.com/pressly/goose/v3.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, pgstore.Migrations, pgstore.MigrationsDir, cfg, log); err != nil {
//	    return err
//	}
//
// Healthcheck returns a func(context.Context) error suitable for readiness
// probes. Settings come from PG_* environment variables.
package pg
