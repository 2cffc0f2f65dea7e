// Package seeders loads a demo customer so the transfer flow can be driven end to end
// without an onboarding service. Every insert is skipped when the row already exists.
package seeders

import (
	"context"
	"fmt"
	"time"

	"github.com/cradoe/remitflow/internal/models"
	"github.com/cradoe/remitflow/internal/repository"
	"github.com/cradoe/remitflow/internal/security"
)

const defaultTimeout = 5 * time.Second

const (
	DemoUserID   = "demo-user"
	DemoPassword = "Tr@nsfer#2024"
	DemoContact  = "demo@remitflow.local"
)

type Seeder struct {
	DB repository.Database
}

func New(DB repository.Database) *Seeder {
	return &Seeder{
		DB: DB,
	}
}

func (seeder *Seeder) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if err := seeder.seedAccounts(ctx); err != nil {
		return fmt.Errorf("seed accounts: %w", err)
	}
	if err := seeder.seedBeneficiaries(ctx); err != nil {
		return fmt.Errorf("seed beneficiaries: %w", err)
	}
	if err := seeder.seedCredential(ctx); err != nil {
		return fmt.Errorf("seed credential: %w", err)
	}

	return nil
}

func (seeder *Seeder) seedAccounts(ctx context.Context) error {
	accounts := []models.Account{
		{
			ID: "acc-001", Label: "Primary Savings", Number: "50100012345678", Class: models.AccountClassSavings,
			Balance: models.Rupees(125000), AvailableBalance: models.Rupees(125000),
			DailyLimit: models.Rupees(500000), MonthlyLimit: models.Rupees(2000000),
			DailyUsed: models.Rupees(125000), MonthlyUsed: models.Rupees(125000),
		},
		{
			ID: "acc-002", Label: "Current Account", Number: "50100087654321", Class: models.AccountClassCurrent,
			Balance: models.Rupees(500000), AvailableBalance: models.Rupees(500000),
			DailyLimit: models.Rupees(1000000), MonthlyLimit: models.Rupees(5000000),
		},
		{
			ID: "acc-003", Label: "Salary Account", Number: "50100055551234", Class: models.AccountClassSalary,
			Balance: models.Rupees(75000), AvailableBalance: models.Rupees(75000),
			DailyLimit: models.Rupees(200000), MonthlyLimit: models.Rupees(1000000),
		},
	}

	for i := range accounts {
		_, found, err := seeder.DB.Account().GetOne(ctx, accounts[i].ID)
		if err != nil {
			return err
		}
		if found {
			continue
		}

		accounts[i].UserID = DemoUserID
		if err := seeder.DB.Account().Insert(ctx, &accounts[i]); err != nil {
			return err
		}
	}

	return nil
}

func (seeder *Seeder) seedBeneficiaries(ctx context.Context) error {
	verifiedAt := time.Now().UTC().AddDate(0, -1, 0)

	beneficiaries := []models.Beneficiary{
		{ID: "ben-001", Name: "Priya Sharma", AccountNumber: "123456789012", RoutingCode: "HDFC0001234", BankName: "HDFC Bank"},
		{ID: "ben-002", Name: "Rahul Verma", AccountNumber: "987654321098", RoutingCode: "ICIC0005678", BankName: "ICICI Bank"},
		{ID: "ben-003", Name: "Anita Desai", AccountNumber: "456789012345", RoutingCode: "SBIN0009876", BankName: "State Bank of India"},
	}

	for i := range beneficiaries {
		_, found, err := seeder.DB.Beneficiary().GetOne(ctx, beneficiaries[i].ID)
		if err != nil {
			return err
		}
		if found {
			continue
		}

		beneficiaries[i].UserID = DemoUserID
		beneficiaries[i].Status = models.BeneficiaryVerified
		beneficiaries[i].VerifiedAt = &verifiedAt

		if _, err := seeder.DB.Beneficiary().Insert(ctx, &beneficiaries[i]); err != nil {
			return err
		}
	}

	return nil
}

func (seeder *Seeder) seedCredential(ctx context.Context) error {
	_, found, err := seeder.DB.Credential().GetOne(ctx, DemoUserID)
	if err != nil || found {
		return err
	}

	return security.NewCredentials(seeder.DB.Credential()).SetTransactionPassword(ctx, DemoUserID, DemoPassword, DemoContact)
}
