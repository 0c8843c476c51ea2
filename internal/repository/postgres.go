package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	operationCredit = "credit"
	operationDebit  = "debit"
)

// PostgresRepository хранит бонусные балансы в PostgreSQL.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	delays []time.Duration
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{
		pool:   pool,
		delays: []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second},
	}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func (r *PostgresRepository) withRetry(ctx context.Context, fn func() error) error {
	var err error

	for i := 0; i <= len(r.delays); i++ {
		err = fn()
		if err == nil || !isRetryable(err) || i == len(r.delays) {
			return err
		}

		timer := time.NewTimer(r.delays[i])
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}

	return isConnectionError(err)
}

func isConnectionError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "connection reset by peer")
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// Credit зачисляет бонусы на счёт пользователя и возвращает новый баланс.
func (r *PostgresRepository) Credit(ctx context.Context, userID uuid.UUID, amount float64) (float64, error) {
	sum, err := toKopecks(amount)
	if err != nil {
		return 0, err
	}
	var balance int64

	err = r.withRetry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		err = tx.QueryRow(ctx,
			`INSERT INTO bonus_balances (user_id, balance) VALUES ($1, $2)
			 ON CONFLICT (user_id) DO UPDATE
			 SET balance = bonus_balances.balance + EXCLUDED.balance, updated_at = now()
			 RETURNING balance`,
			userID, sum,
		).Scan(&balance)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.NumericValueOutOfRange {
				return fmt.Errorf("%w: credit %.2f", ErrAmountOutOfRange, amount)
			}
			return fmt.Errorf("credit balance: %w", err)
		}

		if err := insertOperation(ctx, tx, userID, operationCredit, sum); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return fromKopecks(balance), nil
}

// Debit списывает бонусы со счёта пользователя. Использует блокировку строки баланса для сериализации списаний.
func (r *PostgresRepository) Debit(ctx context.Context, userID uuid.UUID, amount float64) (float64, error) {
	sum, err := toKopecks(amount)
	if err != nil {
		return 0, err
	}
	var balance int64

	err = r.withRetry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		err = tx.QueryRow(ctx,
			`SELECT balance FROM bonus_balances WHERE user_id = $1 FOR UPDATE`,
			userID,
		).Scan(&balance)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("lock balance for update: %w", err)
		}

		if sum > balance {
			return &InsufficientBalanceError{Balance: fromKopecks(balance), Requested: amount}
		}

		err = tx.QueryRow(ctx,
			`UPDATE bonus_balances SET balance = balance - $2, updated_at = now()
			 WHERE user_id = $1
			 RETURNING balance`,
			userID, sum,
		).Scan(&balance)
		if err != nil {
			return fmt.Errorf("debit balance: %w", err)
		}

		if err := insertOperation(ctx, tx, userID, operationDebit, sum); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
	if err != nil {
		return fromKopecks(balance), err
	}

	return fromKopecks(balance), nil
}

// Balance возвращает текущий баланс пользователя, для неизвестного пользователя 0.
func (r *PostgresRepository) Balance(ctx context.Context, userID uuid.UUID) (float64, error) {
	var balance int64
	err := r.pool.QueryRow(ctx,
		`SELECT balance FROM bonus_balances WHERE user_id = $1`,
		userID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("select balance: %w", err)
	}

	return fromKopecks(balance), nil
}

func insertOperation(ctx context.Context, tx pgx.Tx, userID uuid.UUID, kind string, sum int64) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO bonus_operations (user_id, kind, amount) VALUES ($1, $2, $3)`,
		userID, kind, sum,
	)
	if err != nil {
		return fmt.Errorf("insert %s operation: %w", kind, err)
	}
	return nil
}
