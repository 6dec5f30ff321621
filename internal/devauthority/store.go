package devauthority

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/99minutos/admin-console/internal/core/domain"
)

var (
	errAccountExists   = errors.New("user already exists")
	errAccountNotFound = errors.New("user not found")
	errCustomerMissing = errors.New("customer not found")
)

// account is a stored operator account.
type account struct {
	domain.ManagedUser
	PasswordHash string
}

// memoryStore keeps the authority's state in process memory.
type memoryStore struct {
	mu        sync.RWMutex
	accounts  map[string]*account // by id
	customers map[string]*domain.Customer
	activity  map[string][]domain.UserActivity // by user id
	revoked   map[string]time.Time             // token id -> expiry
	resets    map[string]resetGrant            // reset token -> grant
}

type resetGrant struct {
	userID  string
	expires time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		accounts:  make(map[string]*account),
		customers: make(map[string]*domain.Customer),
		activity:  make(map[string][]domain.UserActivity),
		revoked:   make(map[string]time.Time),
		resets:    make(map[string]resetGrant),
	}
}

func (s *memoryStore) createAccount(a account) (*account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if strings.EqualFold(existing.Username, a.Username) {
			return nil, errAccountExists
		}
	}
	if a.ID == "" {
		a.ID = domain.ID(uuid.NewString())
	}
	clone := a
	s.accounts[a.ID.String()] = &clone
	return &a, nil
}

func (s *memoryStore) accountByUsername(username string) (*account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.Username, username) {
			clone := *a
			return &clone, nil
		}
	}
	return nil, errAccountNotFound
}

func (s *memoryStore) accountByID(id string) (*account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, errAccountNotFound
	}
	clone := *a
	return &clone, nil
}

// updateAccount applies fn to the stored account under the write lock.
func (s *memoryStore) updateAccount(id string, fn func(a *account) error) (*account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, errAccountNotFound
	}
	next := *a
	if err := fn(&next); err != nil {
		return nil, err
	}
	for otherID, other := range s.accounts {
		if otherID != id && strings.EqualFold(other.Username, next.Username) {
			return nil, errAccountExists
		}
	}
	now := time.Now().UTC()
	next.UpdatedAt = &now
	s.accounts[id] = &next
	clone := next
	return &clone, nil
}

func (s *memoryStore) deleteAccount(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return errAccountNotFound
	}
	delete(s.accounts, id)
	delete(s.activity, id)
	return nil
}

// listAccounts returns accounts matching the filter ordered by username, and
// the total number of matches before pagination.
func (s *memoryStore) listAccounts(role string, active *bool, search string, page, limit int) ([]domain.ManagedUser, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.ManagedUser
	for _, a := range s.accounts {
		if role != "" && a.Role != role {
			continue
		}
		if active != nil && (a.IsActive == nil || *a.IsActive != *active) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(a.Username), strings.ToLower(search)) {
			continue
		}
		matched = append(matched, a.ManagedUser)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Username < matched[j].Username })
	return paginate(matched, page, limit), int64(len(matched))
}

func (s *memoryStore) recordActivity(userID, action, details string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := domain.UserActivity{
		ID:        domain.ID(uuid.NewString()),
		UserID:    domain.ID(userID),
		Action:    action,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}
	s.activity[userID] = append([]domain.UserActivity{entry}, s.activity[userID]...)
}

func (s *memoryStore) activityFor(userID string, limit int) []domain.UserActivity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.activity[userID]
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]domain.UserActivity, len(entries))
	copy(out, entries)
	return out
}

func (s *memoryStore) revoke(tokenID string, expires time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, exp := range s.revoked {
		if exp.Before(now) {
			delete(s.revoked, id)
		}
	}
	s.revoked[tokenID] = expires
}

func (s *memoryStore) isRevoked(tokenID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.revoked[tokenID]
	return ok
}

func (s *memoryStore) accountByEmail(email string) (*account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.Email != "" && strings.EqualFold(a.Email, email) {
			clone := *a
			return &clone, nil
		}
	}
	return nil, errAccountNotFound
}

func (s *memoryStore) putResetToken(token, userID string, expires time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets[token] = resetGrant{userID: userID, expires: expires}
}

// takeResetToken removes token and returns its account id if it had not
// expired at now.
func (s *memoryStore) takeResetToken(token string, now time.Time) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.resets[token]
	if !ok {
		return "", false
	}
	delete(s.resets, token)
	if now.After(g.expires) {
		return "", false
	}
	return g.userID, true
}

func (s *memoryStore) putCustomer(c domain.Customer) *domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = domain.ID(uuid.NewString())
	}
	clone := c
	s.customers[c.ID.String()] = &clone
	return &c
}

func (s *memoryStore) customer(id string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok {
		return nil, errCustomerMissing
	}
	clone := *c
	return &clone, nil
}

func (s *memoryStore) deleteCustomer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[id]; !ok {
		return errCustomerMissing
	}
	delete(s.customers, id)
	return nil
}

func (s *memoryStore) listCustomers(page, limit int) ([]domain.Customer, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]domain.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, page, limit), int64(len(all))
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	skip := (page - 1) * limit
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []T{}
	}
	end := skip + limit
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}
