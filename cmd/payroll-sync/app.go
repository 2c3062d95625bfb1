package main

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iota-uz/payroll-sync/modules"
	"github.com/iota-uz/payroll-sync/pkg/application"
	"github.com/iota-uz/payroll-sync/pkg/composables"
	"github.com/iota-uz/payroll-sync/pkg/configuration"
	"github.com/iota-uz/payroll-sync/pkg/eventbus"
)

// setupApp builds the service registry and binds the database pool into the
// returned context. The caller owns the pool.
func setupApp(ctx context.Context) (context.Context, application.Application, *pgxpool.Pool, error) {
	conf := configuration.Use()

	connCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(connCtx, conf.Database.ConnectionString())
	if err != nil {
		return nil, nil, nil, withCode(exitDB, err)
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(conf.Logger()),
		Logger:   conf.Logger(),
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	return composables.WithPool(ctx, pool), app, pool, nil
}
