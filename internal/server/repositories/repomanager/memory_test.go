package repomanager

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/scribe/internal/server/models"
)

func TestMemoryRepositoryManager_WithTxSharesRepos(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRepositoryManager()

	err := m.WithTx(ctx, func(ctx context.Context, tx RepositoryManager) error {
		if _, err := tx.Posts().Create(ctx, &models.Post{Subject: "s", Content: "c"}); err != nil {
			return err
		}
		return tx.WithTx(ctx, func(ctx context.Context, inner RepositoryManager) error {
			_, err := inner.Revisions().Create(ctx, &models.Revision{Path: "/", Version: 1, Content: "x"})
			return err
		})
	})
	if err != nil {
		t.Fatalf("WithTx error: %v", err)
	}

	if _, err := m.Posts().GetByID(ctx, 1); err != nil {
		t.Fatalf("post not visible outside tx: %v", err)
	}
	if v, _ := m.Revisions().MaxVersion(ctx, "/"); v != 1 {
		t.Fatalf("expected version 1, got %d", v)
	}
}

func TestMemoryRepositoryManager_WithTxPropagatesError(t *testing.T) {
	m := NewMemoryRepositoryManager()
	boom := errors.New("boom")

	err := m.WithTx(context.Background(), func(context.Context, RepositoryManager) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestMemoryRepositoryManager_Ping(t *testing.T) {
	m := NewMemoryRepositoryManager()
	if err := m.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Ping(ctx); err == nil {
		t.Fatal("expected error on cancelled ctx")
	}
}
