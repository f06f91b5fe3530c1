package revisions

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/scribe/internal/common"
	"github.com/dmitrijs2005/scribe/internal/server/models"
)

// MemoryRepository keeps revisions per path in version order.
type MemoryRepository struct {
	mu     sync.RWMutex
	byPath map[string][]models.Revision
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byPath: make(map[string][]models.Revision),
		now:    time.Now,
	}
}

func (r *MemoryRepository) MaxVersion(ctx context.Context, path string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byPath[path]), nil
}

// Create only accepts the next version in sequence; anything else already
// exists or would leave a gap, and is reported as a conflict.
func (r *MemoryRepository) Create(ctx context.Context, rev *models.Revision) (*models.Revision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.byPath[rev.Path]
	if rev.Version != len(list)+1 {
		return nil, common.ErrVersionConflict
	}

	rev.CreatedAt = r.now().UTC()
	r.byPath[rev.Path] = append(list, *rev)

	return rev, nil
}

func (r *MemoryRepository) ListByPath(ctx context.Context, path string) ([]*models.Revision, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.byPath[path]
	result := make([]*models.Revision, 0, len(list))
	for i := range list {
		rev := list[i]
		result = append(result, &rev)
	}
	return result, nil
}
