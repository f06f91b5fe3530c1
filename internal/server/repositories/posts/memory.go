package posts

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/scribe/internal/common"
	"github.com/dmitrijs2005/scribe/internal/server/models"
)

// MemoryRepository keeps posts in process memory. Returned posts are copies.
type MemoryRepository struct {
	mu    sync.RWMutex
	posts []models.Post
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: time.Now}
}

func (r *MemoryRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post.ID = int64(len(r.posts) + 1)
	post.CreatedAt = r.now().UTC()
	r.posts = append(r.posts, *post)

	return post, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id < 1 || id > int64(len(r.posts)) {
		return nil, common.ErrorNotFound
	}
	p := r.posts[id-1]
	return &p, nil
}

func (r *MemoryRepository) Recent(ctx context.Context, limit int) ([]*models.Post, error) {
	r.mu.RLock()
	all := make([]models.Post, len(r.posts))
	copy(all, r.posts)
	r.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if limit >= 0 && len(all) > limit {
		all = all[:limit]
	}

	result := make([]*models.Post, 0, len(all))
	for i := range all {
		result = append(result, &all[i])
	}
	return result, nil
}
