package purchase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/installment-tracker/backend/internal/application/adapter/mock"
	"github.com/installment-tracker/backend/internal/domain/entity"
	domainerror "github.com/installment-tracker/backend/internal/domain/error"
)

func validTerms() Terms {
	return Terms{
		Description:  "Laptop",
		Category:     "electronics",
		Amount:       decimal.RequireFromString("1200"),
		Installments: 12,
		InterestRate: decimal.Zero,
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func createPurchase(t *testing.T, repo *mock.PurchaseRepository, userID uuid.UUID, start time.Time) *entity.Purchase {
	t.Helper()
	out, err := NewCreatePurchaseUseCase(repo).Execute(context.Background(), CreatePurchaseInput{
		UserID:    userID,
		StartDate: start,
		Terms:     validTerms(),
	})
	if err != nil {
		t.Fatalf("failed to create purchase: %v", err)
	}
	return out.Purchase
}

func TestCreatePurchaseUseCase_Validation(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(*Terms)
		expectedCode domainerror.PurchaseErrorCode
	}{
		{
			name:         "zero amount",
			mutate:       func(t *Terms) { t.Amount = decimal.Zero },
			expectedCode: domainerror.ErrCodeInvalidPurchaseAmount,
		},
		{
			name:         "negative amount",
			mutate:       func(t *Terms) { t.Amount = decimal.RequireFromString("-5") },
			expectedCode: domainerror.ErrCodeInvalidPurchaseAmount,
		},
		{
			name:         "zero installments",
			mutate:       func(t *Terms) { t.Installments = 0 },
			expectedCode: domainerror.ErrCodeInvalidInstallments,
		},
		{
			name:         "too many installments",
			mutate:       func(t *Terms) { t.Installments = MaxInstallments + 1 },
			expectedCode: domainerror.ErrCodeInvalidInstallments,
		},
		{
			name:         "negative interest",
			mutate:       func(t *Terms) { t.InterestRate = decimal.RequireFromString("-0.5") },
			expectedCode: domainerror.ErrCodeInvalidInterestRate,
		},
		{
			name:         "interest above cap",
			mutate:       func(t *Terms) { t.InterestRate = decimal.NewFromInt(1000) },
			expectedCode: domainerror.ErrCodeInvalidInterestRate,
		},
		{
			name:         "amount above cap",
			mutate:       func(t *Terms) { t.Amount = MaxAmount.Add(decimal.NewFromInt(1)) },
			expectedCode: domainerror.ErrCodeInvalidPurchaseAmount,
		},
		{
			name:         "billing cycle day out of range",
			mutate:       func(t *Terms) { t.BillingCycleDay = 32 },
			expectedCode: domainerror.ErrCodeInvalidCycleDay,
		},
		{
			name:         "negative payment due day",
			mutate:       func(t *Terms) { t.PaymentDueDay = -1 },
			expectedCode: domainerror.ErrCodeInvalidCycleDay,
		},
		{
			name:         "category too long",
			mutate:       func(t *Terms) { t.Category = string(make([]byte, MaxCategoryLength+1)) },
			expectedCode: domainerror.ErrCodeMissingPurchaseFields,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock.NewPurchaseRepository()
			terms := validTerms()
			tt.mutate(&terms)

			_, err := NewCreatePurchaseUseCase(repo).Execute(context.Background(), CreatePurchaseInput{
				UserID: uuid.New(),
				Terms:  terms,
			})

			var purchaseErr *domainerror.PurchaseError
			if !errors.As(err, &purchaseErr) {
				t.Fatalf("expected PurchaseError, got %v", err)
			}
			if purchaseErr.Code != tt.expectedCode {
				t.Errorf("expected code %s, got %s", tt.expectedCode, purchaseErr.Code)
			}
		})
	}
}

func TestCreatePurchaseUseCase_DerivesSchedule(t *testing.T) {
	repo := mock.NewPurchaseRepository()
	userID := uuid.New()

	tests := []struct {
		name            string
		start           time.Time
		terms           func(*Terms)
		expectedMonthly string
		expectedEnd     time.Time
	}{
		{
			name:            "before cutoff pays from next month",
			start:           date(2024, time.January, 10),
			expectedMonthly: "100.00",
			expectedEnd:     date(2025, time.January, 5),
		},
		{
			name:            "on or after cutoff skips a month",
			start:           date(2024, time.January, 20),
			expectedMonthly: "100.00",
			expectedEnd:     date(2025, time.February, 5),
		},
		{
			name:  "flat interest and custom card days",
			start: date(2024, time.March, 3),
			terms: func(t *Terms) {
				t.Amount = decimal.RequireFromString("1000")
				t.Installments = 10
				t.InterestRate = decimal.RequireFromString("2")
				t.BillingCycleDay = 1
				t.PaymentDueDay = 20
			},
			expectedMonthly: "120.00",
			expectedEnd:     date(2025, time.February, 20),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := validTerms()
			if tt.terms != nil {
				tt.terms(&terms)
			}

			out, err := NewCreatePurchaseUseCase(repo).Execute(context.Background(), CreatePurchaseInput{
				UserID:    userID,
				StartDate: tt.start,
				Terms:     terms,
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			p := out.Purchase
			if p.MonthlyPayment.StringFixed(2) != tt.expectedMonthly {
				t.Errorf("expected monthly %s, got %s", tt.expectedMonthly, p.MonthlyPayment.StringFixed(2))
			}
			if !p.EndDate.Equal(tt.expectedEnd) {
				t.Errorf("expected end date %s, got %s", tt.expectedEnd.Format(time.DateOnly), p.EndDate.Format(time.DateOnly))
			}
			if !p.TotalPaid.IsZero() || p.InstallmentsPaid != 0 {
				t.Errorf("expected nothing paid, got %s / %d", p.TotalPaid, p.InstallmentsPaid)
			}
			if !p.RemainingBalance.Equal(p.Amount) {
				t.Errorf("expected remaining %s, got %s", p.Amount, p.RemainingBalance)
			}
			if _, ok := repo.Get(p.ID); !ok {
				t.Error("expected purchase to be stored")
			}
		})
	}
}

func TestCreatePurchaseUseCase_Defaults(t *testing.T) {
	terms := validTerms()
	terms.Category = ""

	out, err := NewCreatePurchaseUseCase(mock.NewPurchaseRepository()).Execute(context.Background(), CreatePurchaseInput{
		UserID: uuid.New(),
		Terms:  terms,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	p := out.Purchase
	if p.Category != entity.DefaultCategory {
		t.Errorf("expected category %q, got %q", entity.DefaultCategory, p.Category)
	}
	if p.BillingCycleDay != 16 || p.PaymentDueDay != 5 {
		t.Errorf("expected card days 16/5, got %d/%d", p.BillingCycleDay, p.PaymentDueDay)
	}
	if !p.StartDate.Equal(today()) {
		t.Errorf("expected start date today, got %s", p.StartDate.Format(time.DateOnly))
	}
}

func TestCreatePurchaseUseCase_RepositoryFailure(t *testing.T) {
	repo := mock.NewPurchaseRepository()
	repo.Err = errors.New("db down")

	_, err := NewCreatePurchaseUseCase(repo).Execute(context.Background(), CreatePurchaseInput{
		UserID: uuid.New(),
		Terms:  validTerms(),
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var purchaseErr *domainerror.PurchaseError
	if errors.As(err, &purchaseErr) {
		t.Errorf("expected uncoded error, got code %s", purchaseErr.Code)
	}
}

func TestGetPurchaseUseCase_Ownership(t *testing.T) {
	repo := mock.NewPurchaseRepository()
	owner := uuid.New()
	p := createPurchase(t, repo, owner, date(2024, time.January, 10))
	uc := NewGetPurchaseUseCase(repo)

	tests := []struct {
		name       string
		purchaseID uuid.UUID
		userID     uuid.UUID
		expectErr  bool
	}{
		{name: "owner", purchaseID: p.ID, userID: owner},
		{name: "other user", purchaseID: p.ID, userID: uuid.New(), expectErr: true},
		{name: "unknown id", purchaseID: uuid.New(), userID: owner, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := uc.Execute(context.Background(), GetPurchaseInput{PurchaseID: tt.purchaseID, UserID: tt.userID})
			if !tt.expectErr {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if out.Purchase.ID != p.ID {
					t.Errorf("expected purchase %s, got %s", p.ID, out.Purchase.ID)
				}
				return
			}

			var purchaseErr *domainerror.PurchaseError
			if !errors.As(err, &purchaseErr) || purchaseErr.Code != domainerror.ErrCodePurchaseNotFound {
				t.Errorf("expected %s, got %v", domainerror.ErrCodePurchaseNotFound, err)
			}
			if !errors.Is(err, domainerror.ErrPurchaseNotFound) {
				t.Error("expected error to wrap ErrPurchaseNotFound")
			}
		})
	}
}

func TestListPurchasesUseCase_OrdersByStartDate(t *testing.T) {
	repo := mock.NewPurchaseRepository()
	userID := uuid.New()
	older := createPurchase(t, repo, userID, date(2023, time.June, 1))
	newer := createPurchase(t, repo, userID, date(2024, time.June, 1))
	createPurchase(t, repo, uuid.New(), date(2024, time.July, 1))

	out, err := NewListPurchasesUseCase(repo).Execute(context.Background(), ListPurchasesInput{UserID: userID})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out.Purchases) != 2 {
		t.Fatalf("expected 2 purchases, got %d", len(out.Purchases))
	}
	if out.Purchases[0].ID != newer.ID || out.Purchases[1].ID != older.ID {
		t.Error("expected newest start date first")
	}
}

func TestUpdatePurchaseUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("recomputes derived fields", func(t *testing.T) {
		repo := mock.NewPurchaseRepository()
		p := createPurchase(t, repo, userID, date(2024, time.January, 10))

		terms := validTerms()
		terms.Amount = decimal.RequireFromString("600")
		terms.Installments = 6
		terms.Category = ""

		out, err := NewUpdatePurchaseUseCase(repo).Execute(ctx, UpdatePurchaseInput{
			PurchaseID: p.ID,
			UserID:     userID,
			Terms:      terms,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		updated := out.Purchase
		if updated.MonthlyPayment.StringFixed(2) != "100.00" {
			t.Errorf("expected monthly 100.00, got %s", updated.MonthlyPayment.StringFixed(2))
		}
		if !updated.EndDate.Equal(date(2024, time.July, 5)) {
			t.Errorf("expected end date 2024-07-05, got %s", updated.EndDate.Format(time.DateOnly))
		}
		if !updated.StartDate.Equal(p.StartDate) {
			t.Errorf("expected start date kept, got %s", updated.StartDate.Format(time.DateOnly))
		}
		if updated.Category != entity.DefaultCategory {
			t.Errorf("expected default category, got %q", updated.Category)
		}
		if updated.RemainingBalance.StringFixed(2) != "600.00" {
			t.Errorf("expected remaining 600.00, got %s", updated.RemainingBalance.StringFixed(2))
		}
	})

	t.Run("applies ledger overrides", func(t *testing.T) {
		repo := mock.NewPurchaseRepository()
		p := createPurchase(t, repo, userID, date(2024, time.January, 10))

		totalPaid := decimal.RequireFromString("250")
		installmentsPaid := 7

		out, err := NewUpdatePurchaseUseCase(repo).Execute(ctx, UpdatePurchaseInput{
			PurchaseID:       p.ID,
			UserID:           userID,
			Terms:            validTerms(),
			TotalPaid:        &totalPaid,
			InstallmentsPaid: &installmentsPaid,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		stored, _ := repo.Get(p.ID)
		if stored.TotalPaid.StringFixed(2) != "250.00" {
			t.Errorf("expected total paid 250.00, got %s", stored.TotalPaid.StringFixed(2))
		}
		if stored.RemainingBalance.StringFixed(2) != "950.00" {
			t.Errorf("expected remaining 950.00, got %s", stored.RemainingBalance.StringFixed(2))
		}
		if out.Purchase.InstallmentsPaid != 7 {
			t.Errorf("expected 7 installments paid, got %d", out.Purchase.InstallmentsPaid)
		}
	})

	t.Run("rejects negative overrides", func(t *testing.T) {
		repo := mock.NewPurchaseRepository()
		p := createPurchase(t, repo, userID, date(2024, time.January, 10))
		negative := decimal.RequireFromString("-1")

		_, err := NewUpdatePurchaseUseCase(repo).Execute(ctx, UpdatePurchaseInput{
			PurchaseID: p.ID,
			UserID:     userID,
			Terms:      validTerms(),
			TotalPaid:  &negative,
		})

		var purchaseErr *domainerror.PurchaseError
		if !errors.As(err, &purchaseErr) || purchaseErr.Code != domainerror.ErrCodeInvalidTotalPaid {
			t.Errorf("expected %s, got %v", domainerror.ErrCodeInvalidTotalPaid, err)
		}
	})

	t.Run("other user sees not found", func(t *testing.T) {
		repo := mock.NewPurchaseRepository()
		p := createPurchase(t, repo, userID, date(2024, time.January, 10))

		_, err := NewUpdatePurchaseUseCase(repo).Execute(ctx, UpdatePurchaseInput{
			PurchaseID: p.ID,
			UserID:     uuid.New(),
			Terms:      validTerms(),
		})
		if !errors.Is(err, domainerror.ErrPurchaseNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})
}

func TestDeletePurchaseUseCase_RemovesHistory(t *testing.T) {
	ctx := context.Background()
	repo := mock.NewPurchaseRepository()
	userID := uuid.New()
	p := createPurchase(t, repo, userID, date(2024, time.January, 10))

	entry := p.ApplyPayment(decimal.RequireFromString("100"), date(2024, time.February, 5))
	if err := repo.SavePayment(ctx, p, entry); err != nil {
		t.Fatalf("failed to seed payment: %v", err)
	}

	uc := NewDeletePurchaseUseCase(repo)

	if err := uc.Execute(ctx, DeletePurchaseInput{PurchaseID: p.ID, UserID: uuid.New()}); !errors.Is(err, domainerror.ErrPurchaseNotFound) {
		t.Fatalf("expected not found for other user, got %v", err)
	}

	if err := uc.Execute(ctx, DeletePurchaseInput{PurchaseID: p.ID, UserID: userID}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := repo.Get(p.ID); ok {
		t.Error("expected purchase to be removed")
	}
	if n := repo.HistoryCount(p.ID); n != 0 {
		t.Errorf("expected history to be removed, got %d entries", n)
	}
}

func TestListPaymentHistoryUseCase_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := mock.NewPurchaseRepository()
	userID := uuid.New()
	p := createPurchase(t, repo, userID, date(2024, time.January, 10))

	for _, d := range []time.Time{date(2024, time.February, 5), date(2024, time.April, 5), date(2024, time.March, 5)} {
		entry := p.ApplyPayment(decimal.RequireFromString("100"), d)
		if err := repo.SavePayment(ctx, p, entry); err != nil {
			t.Fatalf("failed to seed payment: %v", err)
		}
	}

	uc := NewListPaymentHistoryUseCase(repo)

	out, err := uc.Execute(ctx, ListPaymentHistoryInput{PurchaseID: p.ID, UserID: userID})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out.Payments) != 3 {
		t.Fatalf("expected 3 payments, got %d", len(out.Payments))
	}
	if !out.Payments[0].PaymentDate.Equal(date(2024, time.April, 5)) {
		t.Errorf("expected newest payment first, got %s", out.Payments[0].PaymentDate.Format(time.DateOnly))
	}

	if _, err := uc.Execute(ctx, ListPaymentHistoryInput{PurchaseID: p.ID, UserID: uuid.New()}); !errors.Is(err, domainerror.ErrPurchaseNotFound) {
		t.Errorf("expected not found for other user, got %v", err)
	}
}
