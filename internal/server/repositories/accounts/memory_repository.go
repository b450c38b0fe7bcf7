package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/localmart-users/internal/common"
	"github.com/dmitrijs2005/localmart-users/internal/server/models"
)

// MemoryRepository keeps accounts in process memory. It enforces the same
// email uniqueness as the Postgres schema and ignores transactions.
type MemoryRepository struct {
	now    func() time.Time
	byID   map[int64]*models.Account
	mu     sync.RWMutex
	nextID int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[int64]*models.Account), now: time.Now}
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if a := r.findByEmailLocked(email); a != nil {
		cp := *a
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (r *MemoryRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *MemoryRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.findByEmailLocked(email) != nil, nil
}

func (r *MemoryRepository) Insert(ctx context.Context, name, email, passwordHash string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findByEmailLocked(email) != nil {
		return nil, common.ErrDuplicateEmail
	}

	r.nextID++
	now := r.now().UTC()
	a := &models.Account{
		ID:           r.nextID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.byID[a.ID] = a

	cp := *a
	return &cp, nil
}

func (r *MemoryRepository) Update(ctx context.Context, id int64, upd models.AccountUpdate) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	if upd.Email != nil {
		if other := r.findByEmailLocked(*upd.Email); other != nil && other.ID != id {
			return nil, common.ErrDuplicateEmail
		}
		a.Email = *upd.Email
	}
	if upd.Name != nil {
		a.Name = *upd.Name
	}
	a.UpdatedAt = r.now().UTC()

	cp := *a
	return &cp, nil
}

// SetAdmin flips the admin flag. Accounts have no API path to do this.
func (r *MemoryRepository) SetAdmin(id int64, admin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	a.IsAdmin = admin
	return nil
}

// Delete removes an account.
func (r *MemoryRepository) Delete(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

func (r *MemoryRepository) findByEmailLocked(email string) *models.Account {
	for _, a := range r.byID {
		if a.Email == email {
			return a
		}
	}
	return nil
}
