package summary

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/installment-tracker/backend/internal/application/adapter/mock"
	"github.com/installment-tracker/backend/internal/domain/entity"
)

func TestGetSummaryUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("aggregates purchases and budget", func(t *testing.T) {
		purchases := mock.NewPurchaseRepository()
		budgets := mock.NewBudgetRepository()

		a := entity.NewPurchase(userID, "a", "", "", decimal.NewFromInt(3000), 3, decimal.Zero, start, 16, 5)
		a.ApplyPayment(decimal.NewFromInt(1000), start)
		b := entity.NewPurchase(userID, "b", "", "", decimal.NewFromInt(1000), 10, decimal.NewFromInt(1), start, 16, 5)
		other := entity.NewPurchase(uuid.New(), "c", "", "", decimal.NewFromInt(999), 1, decimal.Zero, start, 16, 5)
		for _, p := range []*entity.Purchase{a, b, other} {
			_ = purchases.Create(ctx, p)
		}
		_ = budgets.Replace(ctx, entity.NewBudget(userID, decimal.NewFromInt(5000), ""))

		out, err := NewGetSummaryUseCase(purchases, budgets).Execute(ctx, GetSummaryInput{UserID: userID})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		checks := []struct {
			name     string
			got      decimal.Decimal
			expected string
		}{
			{"total monthly payment", out.TotalMonthlyPayment, "1110.00"},
			{"total remaining", out.TotalRemaining, "3000.00"},
			{"total paid", out.TotalPaid, "1000.00"},
			{"total budget", out.TotalBudget, "5000.00"},
			{"used budget", out.UsedBudget, "4000.00"},
			{"remaining budget", out.RemainingBudget, "1000.00"},
		}
		for _, c := range checks {
			if c.got.StringFixed(2) != c.expected {
				t.Errorf("%s: expected %s, got %s", c.name, c.expected, c.got.StringFixed(2))
			}
		}
		if out.TotalPurchases != 2 {
			t.Errorf("expected 2 purchases, got %d", out.TotalPurchases)
		}
	})

	t.Run("no budget means zero budget", func(t *testing.T) {
		purchases := mock.NewPurchaseRepository()
		_ = purchases.Create(ctx, entity.NewPurchase(userID, "a", "", "", decimal.NewFromInt(200), 2, decimal.Zero, start, 16, 5))

		out, err := NewGetSummaryUseCase(purchases, mock.NewBudgetRepository()).Execute(ctx, GetSummaryInput{UserID: userID})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.RemainingBudget.StringFixed(2) != "-200.00" {
			t.Errorf("expected remaining budget -200.00, got %s", out.RemainingBudget.StringFixed(2))
		}
	})
}
