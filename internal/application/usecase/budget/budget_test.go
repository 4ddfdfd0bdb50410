package budget

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/installment-tracker/backend/internal/application/adapter/mock"
)

func TestGetBudgetUseCase_UnsetBudgetIsZero(t *testing.T) {
	uc := NewGetBudgetUseCase(mock.NewBudgetRepository())

	out, err := uc.Execute(context.Background(), GetBudgetInput{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.IsSet {
		t.Error("expected budget not to be set")
	}
	if !out.Budget.TotalBudget.IsZero() {
		t.Errorf("expected zero budget, got %s", out.Budget.TotalBudget)
	}
}

func TestGetBudgetUseCase_RepositoryFailure(t *testing.T) {
	repo := mock.NewBudgetRepository()
	repo.Err = errors.New("db down")

	_, err := NewGetBudgetUseCase(repo).Execute(context.Background(), GetBudgetInput{UserID: uuid.New()})
	if err == nil {
		t.Error("expected error, got nil")
	}
}

func TestUpdateBudgetUseCase_ReplacesPreviousBudget(t *testing.T) {
	ctx := context.Background()
	repo := mock.NewBudgetRepository()
	userID := uuid.New()
	update := NewUpdateBudgetUseCase(repo)
	get := NewGetBudgetUseCase(repo)

	for _, amount := range []string{"5000", "7500.50"} {
		if _, err := update.Execute(ctx, UpdateBudgetInput{
			UserID:      userID,
			TotalBudget: decimal.RequireFromString(amount),
			Description: "monthly",
		}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	out, err := get.Execute(ctx, GetBudgetInput{UserID: userID})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Budget.TotalBudget.StringFixed(2) != "7500.50" {
		t.Errorf("expected 7500.50, got %s", out.Budget.TotalBudget.StringFixed(2))
	}
	if !out.IsSet {
		t.Error("expected budget to be set")
	}
	if repo.Count(userID) != 1 {
		t.Errorf("expected a single budget row, got %d", repo.Count(userID))
	}
}

func TestUpdateBudgetUseCase_Validation(t *testing.T) {
	tests := []struct {
		name        string
		amount      string
		description string
		expectErr   bool
	}{
		{name: "zero budget allowed", amount: "0", expectErr: false},
		{name: "negative budget", amount: "-1", expectErr: true},
		{name: "description too long", amount: "10", description: string(make([]byte, MaxDescriptionLength+1)), expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewUpdateBudgetUseCase(mock.NewBudgetRepository())

			_, err := uc.Execute(context.Background(), UpdateBudgetInput{
				UserID:      uuid.New(),
				TotalBudget: decimal.RequireFromString(tt.amount),
				Description: tt.description,
			})

			if tt.expectErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}
