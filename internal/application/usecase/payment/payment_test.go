package payment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/installment-tracker/backend/internal/application/adapter/mock"
	"github.com/installment-tracker/backend/internal/domain/entity"
	domainerror "github.com/installment-tracker/backend/internal/domain/error"
)

func seedPurchase(t *testing.T, repo *mock.PurchaseRepository, userID uuid.UUID, amount string, installments int) *entity.Purchase {
	t.Helper()
	p := entity.NewPurchase(
		userID,
		"Phone",
		"electronics",
		"",
		decimal.RequireFromString(amount),
		installments,
		decimal.Zero,
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		16,
		5,
	)
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("failed to seed purchase: %v", err)
	}
	return p
}

func TestRecordPaymentUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("recomputes installments from cumulative total", func(t *testing.T) {
		repo := mock.NewPurchaseRepository()
		p := seedPurchase(t, repo, userID, "3000", 3)
		uc := NewRecordPaymentUseCase(repo, NewKeyedMutex())

		for _, amount := range []string{"600", "600", "600"} {
			_, err := uc.Execute(ctx, RecordPaymentInput{
				PurchaseID: p.ID,
				UserID:     userID,
				Amount:     decimal.RequireFromString(amount),
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		}

		stored, _ := repo.Get(p.ID)
		if stored.InstallmentsPaid != 1 {
			t.Errorf("expected 1 installment paid, got %d", stored.InstallmentsPaid)
		}
		if stored.RemainingBalance.StringFixed(2) != "1200.00" {
			t.Errorf("expected remaining 1200.00, got %s", stored.RemainingBalance.StringFixed(2))
		}
		if repo.HistoryCount(p.ID) != 3 {
			t.Errorf("expected 3 history entries, got %d", repo.HistoryCount(p.ID))
		}
	})

	t.Run("history entry carries new installment count and date", func(t *testing.T) {
		repo := mock.NewPurchaseRepository()
		p := seedPurchase(t, repo, userID, "3000", 3)
		uc := NewRecordPaymentUseCase(repo, NewKeyedMutex())
		paidOn := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

		out, err := uc.Execute(ctx, RecordPaymentInput{
			PurchaseID:  p.ID,
			UserID:      userID,
			Amount:      decimal.NewFromInt(2000),
			PaymentDate: paidOn,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.Payment.InstallmentNumber != 2 {
			t.Errorf("expected installment number 2, got %d", out.Payment.InstallmentNumber)
		}
		if !out.Payment.PaymentDate.Equal(paidOn) {
			t.Errorf("expected payment date %s, got %s", paidOn, out.Payment.PaymentDate)
		}
	})

	t.Run("missing date defaults to today", func(t *testing.T) {
		repo := mock.NewPurchaseRepository()
		p := seedPurchase(t, repo, userID, "3000", 3)
		uc := NewRecordPaymentUseCase(repo, NewKeyedMutex())

		out, err := uc.Execute(ctx, RecordPaymentInput{PurchaseID: p.ID, UserID: userID, Amount: decimal.NewFromInt(1)})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.Payment.PaymentDate.Format(time.DateOnly) != time.Now().UTC().Format(time.DateOnly) {
			t.Errorf("expected today, got %s", out.Payment.PaymentDate.Format(time.DateOnly))
		}
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		repo := mock.NewPurchaseRepository()
		p := seedPurchase(t, repo, userID, "3000", 3)
		uc := NewRecordPaymentUseCase(repo, NewKeyedMutex())

		_, err := uc.Execute(ctx, RecordPaymentInput{PurchaseID: p.ID, UserID: userID, Amount: decimal.Zero})

		var paymentErr *domainerror.PaymentError
		if !errors.As(err, &paymentErr) || paymentErr.Code != domainerror.ErrCodeInvalidPaymentAmount {
			t.Errorf("expected invalid amount error, got %v", err)
		}
	})

	t.Run("purchase of another user is not found", func(t *testing.T) {
		repo := mock.NewPurchaseRepository()
		p := seedPurchase(t, repo, uuid.New(), "3000", 3)
		uc := NewRecordPaymentUseCase(repo, NewKeyedMutex())

		_, err := uc.Execute(ctx, RecordPaymentInput{PurchaseID: p.ID, UserID: userID, Amount: decimal.NewFromInt(10)})

		if !errors.Is(err, domainerror.ErrPurchaseNotFound) {
			t.Errorf("expected not found error, got %v", err)
		}
	})

	t.Run("persistence failure leaves purchase untouched", func(t *testing.T) {
		repo := mock.NewPurchaseRepository()
		p := seedPurchase(t, repo, userID, "3000", 3)
		repo.SaveErr[p.ID] = errors.New("disk full")
		uc := NewRecordPaymentUseCase(repo, NewKeyedMutex())

		_, err := uc.Execute(ctx, RecordPaymentInput{PurchaseID: p.ID, UserID: userID, Amount: decimal.NewFromInt(1000)})
		if err == nil {
			t.Fatal("expected error, got nil")
		}

		stored, _ := repo.Get(p.ID)
		if !stored.TotalPaid.IsZero() {
			t.Errorf("expected total paid 0, got %s", stored.TotalPaid)
		}
		if repo.HistoryCount(p.ID) != 0 {
			t.Errorf("expected no history, got %d", repo.HistoryCount(p.ID))
		}
	})
}

func TestBulkPaymentUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("one unknown purchase in a batch of five", func(t *testing.T) {
		repo := mock.NewPurchaseRepository()
		uc := NewBulkPaymentUseCase(repo, NewKeyedMutex())

		var valid []*entity.Purchase
		for i := 0; i < 4; i++ {
			valid = append(valid, seedPurchase(t, repo, userID, "1200", 12))
		}
		unknown := uuid.New()

		items := []BulkPaymentItem{
			{PurchaseID: valid[0].ID, InstallmentNumber: 1, Amount: decimal.NewFromInt(100)},
			{PurchaseID: valid[1].ID, InstallmentNumber: 1, Amount: decimal.NewFromInt(100)},
			{PurchaseID: unknown, InstallmentNumber: 1, Amount: decimal.NewFromInt(100)},
			{PurchaseID: valid[2].ID, InstallmentNumber: 1, Amount: decimal.NewFromInt(100)},
			{PurchaseID: valid[3].ID, InstallmentNumber: 1, Amount: decimal.NewFromInt(100)},
		}

		out, err := uc.Execute(ctx, BulkPaymentInput{UserID: userID, Payments: items})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.SuccessCount != 4 {
			t.Errorf("expected 4 successes, got %d", out.SuccessCount)
		}
		if out.ErrorCount != 1 {
			t.Errorf("expected 1 error, got %d", out.ErrorCount)
		}
		if len(out.Errors) != 1 || out.Errors[0].PurchaseID != unknown {
			t.Fatalf("expected error for %s, got %+v", unknown, out.Errors)
		}
		if out.Errors[0].Error != "purchase not found" {
			t.Errorf("expected 'purchase not found', got %q", out.Errors[0].Error)
		}

		for i, p := range valid {
			stored, _ := repo.Get(p.ID)
			if stored.InstallmentsPaid != 1 {
				t.Errorf("purchase %d: expected 1 installment paid, got %d", i, stored.InstallmentsPaid)
			}
			if repo.HistoryCount(p.ID) != 1 {
				t.Errorf("purchase %d: expected 1 history entry, got %d", i, repo.HistoryCount(p.ID))
			}
		}
	})

	t.Run("increments by one regardless of amount", func(t *testing.T) {
		repo := mock.NewPurchaseRepository()
		p := seedPurchase(t, repo, userID, "3000", 3)
		uc := NewBulkPaymentUseCase(repo, NewKeyedMutex())

		_, err := uc.Execute(ctx, BulkPaymentInput{UserID: userID, Payments: []BulkPaymentItem{
			{PurchaseID: p.ID, InstallmentNumber: 1, Amount: decimal.NewFromInt(5)},
		}})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		stored, _ := repo.Get(p.ID)
		if stored.InstallmentsPaid != 1 {
			t.Errorf("expected 1 installment paid, got %d", stored.InstallmentsPaid)
		}
		if stored.TotalPaid.StringFixed(2) != "5.00" {
			t.Errorf("expected total paid 5.00, got %s", stored.TotalPaid.StringFixed(2))
		}
	})

	t.Run("failed save does not stop later items", func(t *testing.T) {
		repo := mock.NewPurchaseRepository()
		first := seedPurchase(t, repo, userID, "3000", 3)
		second := seedPurchase(t, repo, userID, "3000", 3)
		repo.SaveErr[first.ID] = errors.New("connection reset")
		uc := NewBulkPaymentUseCase(repo, NewKeyedMutex())

		out, err := uc.Execute(ctx, BulkPaymentInput{UserID: userID, Payments: []BulkPaymentItem{
			{PurchaseID: first.ID, Amount: decimal.NewFromInt(1000)},
			{PurchaseID: second.ID, Amount: decimal.NewFromInt(1000)},
		}})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.SuccessCount != 1 || out.ErrorCount != 1 {
			t.Errorf("expected 1 success and 1 error, got %d and %d", out.SuccessCount, out.ErrorCount)
		}
		if out.Errors[0].Error != "failed to apply payment" {
			t.Errorf("expected generic message, got %q", out.Errors[0].Error)
		}
	})

	t.Run("invalid amount is a per-item error", func(t *testing.T) {
		repo := mock.NewPurchaseRepository()
		p := seedPurchase(t, repo, userID, "3000", 3)
		uc := NewBulkPaymentUseCase(repo, NewKeyedMutex())

		out, err := uc.Execute(ctx, BulkPaymentInput{UserID: userID, Payments: []BulkPaymentItem{
			{PurchaseID: p.ID, Amount: decimal.NewFromInt(-1)},
		}})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.ErrorCount != 1 {
			t.Errorf("expected 1 error, got %d", out.ErrorCount)
		}
	})

	t.Run("empty batch is rejected", func(t *testing.T) {
		uc := NewBulkPaymentUseCase(mock.NewPurchaseRepository(), NewKeyedMutex())

		_, err := uc.Execute(ctx, BulkPaymentInput{UserID: userID})
		if !errors.Is(err, domainerror.ErrEmptyBulkPayment) {
			t.Errorf("expected empty batch error, got %v", err)
		}
	})
}

func TestBulkPaymentUseCase_ConcurrentBatchesOnSamePurchase(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := mock.NewPurchaseRepository()
	p := seedPurchase(t, repo, userID, "12000", 120)
	locks := NewKeyedMutex()
	bulk := NewBulkPaymentUseCase(repo, locks)
	single := NewRecordPaymentUseCase(repo, locks)

	const batches = 20
	var wg sync.WaitGroup
	for i := 0; i < batches; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = bulk.Execute(ctx, BulkPaymentInput{UserID: userID, Payments: []BulkPaymentItem{
				{PurchaseID: p.ID, Amount: decimal.NewFromInt(100)},
			}})
		}()
		go func() {
			defer wg.Done()
			_, _ = single.Execute(ctx, RecordPaymentInput{PurchaseID: p.ID, UserID: userID, Amount: decimal.NewFromInt(1)})
		}()
	}
	wg.Wait()

	stored, _ := repo.Get(p.ID)
	if stored.TotalPaid.StringFixed(2) != "2020.00" {
		t.Errorf("expected total paid 2020.00, got %s", stored.TotalPaid.StringFixed(2))
	}
	if repo.HistoryCount(p.ID) != 2*batches {
		t.Errorf("expected %d history entries, got %d", 2*batches, repo.HistoryCount(p.ID))
	}
	if locks.size() != 0 {
		t.Errorf("expected lock table to be empty, got %d", locks.size())
	}
}
