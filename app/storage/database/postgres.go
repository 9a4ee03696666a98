package database

import (
	"context"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // also imports "github.com/lib/pq"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"derisk/app/storage/migrations"
	"derisk/pkg/uuid"
)

type Postgres struct {
	DB *sqlx.DB
}

func Connect(cfg Config) (*Postgres, error) {
	db, err := sqlx.Connect("postgres", cfg.DBConnectionString())
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to the database")
	}

	// auto-migrate the db
	if err = migrateDB(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to migrate the database")
	}

	return &Postgres{DB: db}, nil
}

func migrateDB(cfg Config) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return errors.Wrap(err, "failed to load migrations")
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, cfg.DBConnectionStringForMigration())
	if err != nil {
		return err
	}

	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.DB.Close()
}

func (p *Postgres) CreateSubscription(ctx context.Context, subscription *NewSubscription) (*Subscription, error) {
	result := &Subscription{
		Base: Base{
			ID:        uuid.NewUUID(),
			CreatedAt: time.Now(),
		},
		NewSubscription: *subscription,
	}

	_, err := p.DB.NamedExecContext(
		ctx,
		`INSERT INTO subscriptions (id, wallet_id, health_ratio_level, protocol_id, telegram_id, active, created_at)
		 VALUES (:id, :wallet_id, :health_ratio_level, :protocol_id, :telegram_id, :active, :created_at);`,
		result,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert a subscription")
	}
	return result, nil
}

func (p *Postgres) ActivateSubscription(ctx context.Context, id, telegramID string) error {
	query := "UPDATE subscriptions SET active = TRUE, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL;"
	args := []interface{}{id}
	if telegramID != "" {
		query = "UPDATE subscriptions SET active = TRUE, telegram_id = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL;"
		args = append(args, telegramID)
	}

	result, err := p.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "failed to activate a subscription")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return errors.New("no subscription found to activate")
	}
	return nil
}

func (p *Postgres) ActiveSubscriptions(ctx context.Context) ([]*Subscription, error) {
	var result []*Subscription
	if err := p.DB.SelectContext(
		ctx,
		&result,
		"SELECT * FROM subscriptions WHERE active = TRUE AND deleted_at IS NULL;",
	); err != nil {
		return nil, errors.Wrap(err, "failed to select active subscriptions")
	}
	return result, nil
}

func (p *Postgres) MarkNotified(ctx context.Context, id string, at time.Time) error {
	_, err := p.DB.ExecContext(
		ctx,
		"UPDATE subscriptions SET notified_at = $2, updated_at = NOW() WHERE id = $1;",
		id, at,
	)
	return errors.Wrap(err, "failed to mark a subscription as notified")
}

func (p *Postgres) TradeHistory(ctx context.Context, walletID string) ([]*Trade, error) {
	var result []*Trade
	if err := p.DB.SelectContext(
		ctx,
		&result,
		`SELECT * FROM trades
		 WHERE LOWER(wallet_id) = LOWER($1) AND deleted_at IS NULL
		 ORDER BY time DESC;`,
		walletID,
	); err != nil {
		return nil, errors.Wrap(err, "failed to select trades")
	}
	return result, nil
}

func (p *Postgres) SaveTrades(ctx context.Context, trades []*NewTrade) error {
	tx, err := p.DB.Beginx()
	if err != nil {
		return errors.Wrap(err, "failed to start a db transaction")
	}

	for _, t := range trades {
		record := &Trade{
			Base: Base{
				ID:        uuid.NewUUID(),
				CreatedAt: time.Now(),
			},
			NewTrade: *t,
		}
		_, err := tx.NamedExecContext(
			ctx,
			`INSERT INTO trades (id, wallet_id, token, time, amount, is_sell, created_at)
			 VALUES (:id, :wallet_id, :token, :time, :amount, :is_sell, :created_at);`,
			record,
		)
		if err != nil {
			err = errors.Wrap(err, "failed to insert a trade")
			rlbErr := errors.Wrap(tx.Rollback(), "failed to rollback the db transaction")
			return multierr.Append(err, rlbErr)
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit the db transaction")
}
