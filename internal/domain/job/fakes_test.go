package job

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/talentport/jobsync/internal/domain"
)

// fakeProvider is a scriptable Provider for tests.
type fakeProvider struct {
	name       string
	configured bool
	records    []domain.JobRecord
	err        error
	delay      time.Duration
	panicMsg   string

	calls atomic.Int32
}

func (p *fakeProvider) Name() string     { return p.name }
func (p *fakeProvider) Configured() bool { return p.configured }

func (p *fakeProvider) Fetch(ctx context.Context, _, _, _ string, _ int) ([]domain.JobRecord, error) {
	p.calls.Add(1)
	if p.panicMsg != "" {
		panic(p.panicMsg)
	}
	if p.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.delay):
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.records, nil
}

// fakeStore is an in-memory Store for tests.
type fakeStore struct {
	mu   sync.Mutex
	rows map[domain.JobKey]domain.JobRecord

	findErr     error
	panicOnFind bool
	upsertErr   map[domain.JobKey]error

	upserts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rows:      make(map[domain.JobKey]domain.JobRecord),
		upsertErr: make(map[domain.JobKey]error),
	}
}

func (s *fakeStore) seed(records ...domain.JobRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.rows[r.Key()] = r
	}
}

func (s *fakeStore) Count(_ context.Context, _ Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.rows)), nil
}

func (s *fakeStore) FindMany(_ context.Context, filter Filter, _ Pagination) ([]domain.JobRecord, error) {
	if s.panicOnFind {
		panic("store exploded")
	}
	if s.findErr != nil {
		return nil, s.findErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(filter.Keys) > 0 {
		var out []domain.JobRecord
		for _, k := range filter.Keys {
			if row, ok := s.rows[k]; ok {
				out = append(out, row)
			}
		}
		return out, nil
	}

	out := make([]domain.JobRecord, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, row)
	}
	return out, nil
}

func (s *fakeStore) Upsert(_ context.Context, record domain.JobRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.upsertErr[record.Key()]; ok {
		return err
	}
	s.rows[record.Key()] = record
	s.upserts++
	return nil
}

func (s *fakeStore) DeleteMany(_ context.Context, filter Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for k := range s.rows {
		for _, src := range filter.Sources {
			if k.Source == src {
				delete(s.rows, k)
				deleted++
			}
		}
	}
	return deleted, nil
}

var (
	_ Provider = (*fakeProvider)(nil)
	_ Store    = (*fakeStore)(nil)
)
