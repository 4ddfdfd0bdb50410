// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/installment-tracker/backend/internal/application/adapter"
	"github.com/installment-tracker/backend/internal/domain/entity"
	domainerror "github.com/installment-tracker/backend/internal/domain/error"
	"github.com/installment-tracker/backend/internal/integration/persistence/model"
)

// purchaseRepository implements the adapter.PurchaseRepository interface.
type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository creates a new purchase repository instance.
func NewPurchaseRepository(db *gorm.DB) adapter.PurchaseRepository {
	return &purchaseRepository{
		db: db,
	}
}

// Create inserts a new purchase.
func (r *purchaseRepository) Create(ctx context.Context, purchase *entity.Purchase) error {
	result := r.db.WithContext(ctx).Omit("Payments").Create(model.PurchaseFromEntity(purchase))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a purchase owned by userID.
func (r *purchaseRepository) FindByID(ctx context.Context, id, userID uuid.UUID) (*entity.Purchase, error) {
	var purchaseModel model.PurchaseModel
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&purchaseModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrPurchaseNotFound
		}
		return nil, result.Error
	}
	return purchaseModel.ToEntity(), nil
}

// FindByUserID lists all purchases of a user, newest start date first.
func (r *purchaseRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Purchase, error) {
	var purchaseModels []model.PurchaseModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Order("created_at DESC").
		Find(&purchaseModels)
	if result.Error != nil {
		return nil, result.Error
	}

	purchases := make([]*entity.Purchase, len(purchaseModels))
	for i := range purchaseModels {
		purchases[i] = purchaseModels[i].ToEntity()
	}
	return purchases, nil
}

// Update persists the mutable fields of a purchase.
func (r *purchaseRepository) Update(ctx context.Context, purchase *entity.Purchase) error {
	purchaseModel := model.PurchaseFromEntity(purchase)
	result := r.db.WithContext(ctx).
		Model(purchaseModel).
		Where("user_id = ?", purchase.UserID).
		Select("*").
		Omit("id", "user_id", "created_at", "Payments").
		Updates(purchaseModel)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrPurchaseNotFound
	}
	return nil
}

// Delete removes a purchase owned by userID together with its payment history.
func (r *purchaseRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.PurchaseModel{}).
			Where("id = ? AND user_id = ?", id, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerror.ErrPurchaseNotFound
		}

		if err := tx.Where("purchase_id = ?", id).Delete(&model.PaymentHistoryModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete payment history: %w", err)
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.PurchaseModel{}).Error
	})
}

// SavePayment persists the updated purchase totals and appends the history
// entry in a single transaction.
func (r *purchaseRepository) SavePayment(ctx context.Context, purchase *entity.Purchase, entry *entity.PaymentHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.PurchaseModel{}).
			Where("id = ? AND user_id = ?", purchase.ID, purchase.UserID).
			Updates(map[string]interface{}{
				"total_paid":        purchase.TotalPaid,
				"remaining_balance": purchase.RemainingBalance,
				"installments_paid": purchase.InstallmentsPaid,
				"updated_at":        purchase.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrPurchaseNotFound
		}

		if err := tx.Create(model.PaymentHistoryFromEntity(entry)).Error; err != nil {
			return fmt.Errorf("failed to record payment history: %w", err)
		}
		return nil
	})
}

// ListHistory returns the payment history of a purchase, most recent first.
func (r *purchaseRepository) ListHistory(ctx context.Context, purchaseID uuid.UUID) ([]*entity.PaymentHistory, error) {
	var historyModels []model.PaymentHistoryModel
	result := r.db.WithContext(ctx).
		Where("purchase_id = ?", purchaseID).
		Order("payment_date DESC").
		Order("created_at DESC").
		Find(&historyModels)
	if result.Error != nil {
		return nil, result.Error
	}

	history := make([]*entity.PaymentHistory, len(historyModels))
	for i := range historyModels {
		history[i] = historyModels[i].ToEntity()
	}
	return history, nil
}
