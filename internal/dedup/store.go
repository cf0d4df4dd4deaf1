package dedup

import (
	"sync"

	"go-job-listing-scraper/internal/models"
)

// RecordStore holds every known posting keyed by hash id. It is filled once
// from the persisted table and flushed in full by the materializer.
type RecordStore struct {
	mu      sync.Mutex
	records map[string]models.Posting
	added   map[string]struct{}
}

// NewRecordStore indexes postings by hash id. Rows without a hash id are
// dropped; later duplicates win.
func NewRecordStore(postings []models.Posting) *RecordStore {
	rs := &RecordStore{
		records: make(map[string]models.Posting, len(postings)),
		added:   make(map[string]struct{}),
	}
	for _, p := range postings {
		if p.HashID == "" {
			continue
		}
		rs.records[p.HashID] = p
	}
	return rs
}

// Lookup returns the stored posting for hashID.
func (rs *RecordStore) Lookup(hashID string) (models.Posting, bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	p, ok := rs.records[hashID]
	return p, ok
}

// Merge stores a freshly extracted posting. A new hash id is inserted with
// applied set to "No"; an existing one keeps its posted date and applied
// status while every other field takes the fresh value.
func (rs *RecordStore) Merge(fresh models.Posting) models.Posting {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	merged := fresh
	if existing, ok := rs.records[fresh.HashID]; ok {
		if existing.PostedDate != "" {
			merged.PostedDate = existing.PostedDate
		}
		if existing.Applied != "" {
			merged.Applied = existing.Applied
		}
	} else {
		rs.added[fresh.HashID] = struct{}{}
	}
	if merged.Applied == "" {
		merged.Applied = models.AppliedNo
	}
	rs.records[fresh.HashID] = merged
	return merged
}

// Len is the number of stored postings.
func (rs *RecordStore) Len() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.records)
}

// Added is the number of postings inserted since the store was loaded.
func (rs *RecordStore) Added() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.added)
}

// AddedPostings returns the postings inserted since the store was loaded.
func (rs *RecordStore) AddedPostings() []models.Posting {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]models.Posting, 0, len(rs.added))
	for id := range rs.added {
		out = append(out, rs.records[id])
	}
	return out
}

// Postings returns a snapshot of every stored posting in no particular order.
func (rs *RecordStore) Postings() []models.Posting {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]models.Posting, 0, len(rs.records))
	for _, p := range rs.records {
		out = append(out, p)
	}
	return out
}
