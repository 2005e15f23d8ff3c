package repo

import (
	"context"
	"sort"
	"sync"

	"careers-portal/internal/domain"
)

// MemoryApplicantRepo 内存实现，用于本地开发与测试
type MemoryApplicantRepo struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]domain.Applicant
}

func NewMemoryApplicantRepo() *MemoryApplicantRepo {
	return &MemoryApplicantRepo{rows: make(map[int64]domain.Applicant)}
}

func (r *MemoryApplicantRepo) Insert(ctx context.Context, a *domain.Applicant) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = r.nextID
	r.rows[a.ID] = clone(*a)
	return a.ID, nil
}

func (r *MemoryApplicantRepo) List(ctx context.Context) ([]domain.Applicant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]domain.Applicant, 0, len(r.rows))
	for _, a := range r.rows {
		out = append(out, clone(a))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *MemoryApplicantRepo) Get(ctx context.Context, id int64) (*domain.Applicant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	c := clone(a)
	return &c, nil
}

func (r *MemoryApplicantRepo) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func clone(a domain.Applicant) domain.Applicant {
	if a.ResumeFilename != nil {
		name := *a.ResumeFilename
		a.ResumeFilename = &name
	}
	return a
}
