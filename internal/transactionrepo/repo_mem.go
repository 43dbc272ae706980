package transactionrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/andreycr/sinpe-ledger/internal/domain"
)

// RepoMem is a concurrency-safe in-memory transaction log. It backs unit
// tests and local development runs without PostgreSQL.
type RepoMem struct {
	mu      sync.Mutex
	records map[string]map[int64]domain.Transaction
	seqs    map[string]int64
}

// NewRepoMem returns an empty in-memory transaction log.
func NewRepoMem() *RepoMem {
	return &RepoMem{
		records: make(map[string]map[int64]domain.Transaction),
		seqs:    make(map[string]int64),
	}
}

// NextSequenceID atomically allocates the next sequence id for the account.
func (r *RepoMem) NextSequenceID(_ context.Context, accountID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seqs[accountID]++

	return r.seqs[accountID], nil
}

// Append writes a new immutable transaction record and returns it.
func (r *RepoMem) Append(_ context.Context, tx domain.Transaction) (domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byID, ok := r.records[tx.AccountID]
	if !ok {
		byID = make(map[int64]domain.Transaction)
		r.records[tx.AccountID] = byID
	}

	if _, exists := byID[tx.SequenceID]; exists {
		return domain.Transaction{}, domain.ErrDuplicateSequenceID
	}

	byID[tx.SequenceID] = tx

	return tx, nil
}

// ListRecent returns up to limit transactions for the account, ordered by
// OccurredAt descending with ties broken by SequenceID descending.
func (r *RepoMem) ListRecent(_ context.Context, accountID string, limit int32) ([]domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = DefaultListLimit
	}

	items := []domain.Transaction{}
	for _, tx := range r.records[accountID] {
		items = append(items, tx)
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].OccurredAt.Equal(items[j].OccurredAt) {
			return items[i].OccurredAt.After(items[j].OccurredAt)
		}
		return items[i].SequenceID > items[j].SequenceID
	})

	if int32(len(items)) > limit {
		items = items[:limit]
	}

	return items, nil
}
