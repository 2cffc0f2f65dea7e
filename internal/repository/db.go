package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cradoe/remitflow/assets"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/lib/pq"
)

const defaultTimeout = 3 * time.Second

// Database interface defines available repositories
type Database interface {
	Account() AccountRepository
	Beneficiary() BeneficiaryRepository
	Transaction() TransactionRepository
	Ledger() LedgerRepository
	Credential() CredentialRepository
	Activity() ActivityRepository

	Close() error
}

// DatabaseImpl implements the Database interface on Postgres
type DatabaseImpl struct {
	db              *sqlx.DB
	accountRepo     AccountRepository
	beneficiaryRepo BeneficiaryRepository
	transactionRepo TransactionRepository
	ledgerRepo      LedgerRepository
	credentialRepo  CredentialRepository
	activityRepo    ActivityRepository

	mu sync.Mutex
}

// New initializes a database connection and runs migrations if enabled
func New(dsn string, automigrate bool) (Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", "postgres://"+dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	if automigrate {
		iofsDriver, err := iofs.New(assets.EmbeddedFiles, "migrations")
		if err != nil {
			return nil, err
		}

		migrator, err := migrate.NewWithSourceInstance("iofs", iofsDriver, "postgres://"+dsn)
		if err != nil {
			return nil, err
		}

		if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return nil, err
		}
	}

	// repositories are created lazily on first use
	return &DatabaseImpl{db: db}, nil
}

func (d *DatabaseImpl) Close() error {
	return d.db.Close()
}

func (d *DatabaseImpl) Account() AccountRepository {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.accountRepo == nil {
		d.accountRepo = NewAccountRepository(d.db)
	}
	return d.accountRepo
}

func (d *DatabaseImpl) Beneficiary() BeneficiaryRepository {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.beneficiaryRepo == nil {
		d.beneficiaryRepo = NewBeneficiaryRepository(d.db)
	}
	return d.beneficiaryRepo
}

func (d *DatabaseImpl) Transaction() TransactionRepository {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.transactionRepo == nil {
		d.transactionRepo = NewTransactionRepository(d.db)
	}
	return d.transactionRepo
}

func (d *DatabaseImpl) Ledger() LedgerRepository {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ledgerRepo == nil {
		d.ledgerRepo = NewLedgerRepository(d.db)
	}
	return d.ledgerRepo
}

func (d *DatabaseImpl) Credential() CredentialRepository {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.credentialRepo == nil {
		d.credentialRepo = NewCredentialRepository(d.db)
	}
	return d.credentialRepo
}

func (d *DatabaseImpl) Activity() ActivityRepository {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.activityRepo == nil {
		d.activityRepo = NewActivityRepository(d.db)
	}
	return d.activityRepo
}
