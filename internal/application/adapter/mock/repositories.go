// Package mock provides in-memory implementations of the adapter interfaces
// for use case tests.
package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/installment-tracker/backend/internal/application/adapter"
	"github.com/installment-tracker/backend/internal/domain/entity"
	domainerror "github.com/installment-tracker/backend/internal/domain/error"
)

// PurchaseRepository is an in-memory adapter.PurchaseRepository. Entities are
// copied on the way in and out, like a real store.
type PurchaseRepository struct {
	mu        sync.Mutex
	purchases map[uuid.UUID]entity.Purchase
	history   []entity.PaymentHistory

	// SaveErr, when set, fails SavePayment for the given purchase ids.
	SaveErr map[uuid.UUID]error
	// Err, when set, fails every call.
	Err error
}

// NewPurchaseRepository creates an empty PurchaseRepository.
func NewPurchaseRepository() *PurchaseRepository {
	return &PurchaseRepository{
		purchases: make(map[uuid.UUID]entity.Purchase),
		SaveErr:   make(map[uuid.UUID]error),
	}
}

func (r *PurchaseRepository) Create(_ context.Context, purchase *entity.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.purchases[purchase.ID] = *purchase
	return nil
}

func (r *PurchaseRepository) FindByID(_ context.Context, id, userID uuid.UUID) (*entity.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	p, ok := r.purchases[id]
	if !ok || p.UserID != userID {
		return nil, domainerror.ErrPurchaseNotFound
	}
	return &p, nil
}

func (r *PurchaseRepository) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	result := []*entity.Purchase{}
	for _, p := range r.purchases {
		if p.UserID == userID {
			p := p
			result = append(result, &p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartDate.Equal(result[j].StartDate) {
			return result[i].StartDate.After(result[j].StartDate)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *PurchaseRepository) Update(_ context.Context, purchase *entity.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.purchases[purchase.ID]; !ok {
		return domainerror.ErrPurchaseNotFound
	}
	r.purchases[purchase.ID] = *purchase
	return nil
}

func (r *PurchaseRepository) Delete(_ context.Context, id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	p, ok := r.purchases[id]
	if !ok || p.UserID != userID {
		return domainerror.ErrPurchaseNotFound
	}
	delete(r.purchases, id)
	kept := r.history[:0]
	for _, h := range r.history {
		if h.PurchaseID != id {
			kept = append(kept, h)
		}
	}
	r.history = kept
	return nil
}

func (r *PurchaseRepository) SavePayment(_ context.Context, purchase *entity.Purchase, entry *entity.PaymentHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if err := r.SaveErr[purchase.ID]; err != nil {
		return err
	}
	r.purchases[purchase.ID] = *purchase
	r.history = append(r.history, *entry)
	return nil
}

func (r *PurchaseRepository) ListHistory(_ context.Context, purchaseID uuid.UUID) ([]*entity.PaymentHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	result := []*entity.PaymentHistory{}
	for _, h := range r.history {
		if h.PurchaseID == purchaseID {
			h := h
			result = append(result, &h)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].PaymentDate.After(result[j].PaymentDate)
	})
	return result, nil
}

// Get returns the stored copy of a purchase regardless of owner.
func (r *PurchaseRepository) Get(id uuid.UUID) (entity.Purchase, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.purchases[id]
	return p, ok
}

// HistoryCount returns how many history entries exist for a purchase.
func (r *PurchaseRepository) HistoryCount(purchaseID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, h := range r.history {
		if h.PurchaseID == purchaseID {
			n++
		}
	}
	return n
}

// BudgetRepository is an in-memory adapter.BudgetRepository.
type BudgetRepository struct {
	mu      sync.Mutex
	budgets map[uuid.UUID][]entity.Budget
	Err     error
}

// NewBudgetRepository creates an empty BudgetRepository.
func NewBudgetRepository() *BudgetRepository {
	return &BudgetRepository{budgets: make(map[uuid.UUID][]entity.Budget)}
}

func (r *BudgetRepository) FindCurrent(_ context.Context, userID uuid.UUID) (*entity.Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	rows := r.budgets[userID]
	if len(rows) == 0 {
		return nil, domainerror.ErrBudgetNotFound
	}
	b := rows[len(rows)-1]
	return &b, nil
}

func (r *BudgetRepository) Replace(_ context.Context, budget *entity.Budget) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.budgets[budget.UserID] = []entity.Budget{*budget}
	return nil
}

// Count returns how many budget rows a user has.
func (r *BudgetRepository) Count(userID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.budgets[userID])
}

// UserRepository is an in-memory adapter.UserRepository.
type UserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]entity.User
	Err   error
}

// NewUserRepository creates an empty UserRepository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[uuid.UUID]entity.User)}
}

func (r *UserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domainerror.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, domainerror.ErrUserNotFound
}

func (r *UserRepository) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.users[user.ID]; !ok {
		return domainerror.ErrUserNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if err == domainerror.ErrUserNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *UserRepository) FindReminderRecipients(_ context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	result := []*entity.User{}
	for _, u := range r.users {
		if u.EmailReminders {
			u := u
			result = append(result, &u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Email < result[j].Email })
	return result, nil
}

// EmailQueueRepository is an in-memory adapter.EmailQueueRepository.
type EmailQueueRepository struct {
	mu   sync.Mutex
	jobs []*entity.EmailJob
	Err  error
}

// NewEmailQueueRepository creates an empty EmailQueueRepository.
func NewEmailQueueRepository() *EmailQueueRepository {
	return &EmailQueueRepository{}
}

func (r *EmailQueueRepository) Create(_ context.Context, job *entity.EmailJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.jobs = append(r.jobs, job)
	return nil
}

func (r *EmailQueueRepository) GetPendingJobs(_ context.Context, limit int) ([]*entity.EmailJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	result := []*entity.EmailJob{}
	for _, j := range r.jobs {
		if len(result) == limit {
			break
		}
		if j.Status == entity.EmailStatusPending && !j.ScheduledAt.After(now) {
			result = append(result, j)
		}
	}
	return result, nil
}

func (r *EmailQueueRepository) Update(_ context.Context, _ *entity.EmailJob) error {
	return nil
}

func (r *EmailQueueRepository) HasJobSince(_ context.Context, email string, template entity.EmailTemplateType, since time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		if j.RecipientEmail == email && j.TemplateType == template && !j.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r *EmailQueueRepository) DeleteOldSentJobs(_ context.Context, _ int) (int64, error) {
	return 0, nil
}

// Jobs returns every queued job in insertion order.
func (r *EmailQueueRepository) Jobs() []*entity.EmailJob {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.EmailJob(nil), r.jobs...)
}

var (
	_ adapter.PurchaseRepository   = (*PurchaseRepository)(nil)
	_ adapter.BudgetRepository     = (*BudgetRepository)(nil)
	_ adapter.UserRepository       = (*UserRepository)(nil)
	_ adapter.EmailQueueRepository = (*EmailQueueRepository)(nil)
)
