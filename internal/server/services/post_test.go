package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/scribe/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_CreateThenGet(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	id, err := env.posts.Create(ctx, PostForm{Subject: "hello", Content: "world"})
	require.NoError(t, err)

	p, age, err := env.posts.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "hello", p.Subject)
	assert.Equal(t, "world", p.Content)
	assert.Zero(t, age)

	env.clock.advance(7 * time.Second)
	_, age, err = env.posts.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, age)
}

func TestPost_CreateValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.posts.Create(context.Background(), PostForm{Subject: "only subject"})
	var verr *common.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, MsgPostIncomplete, verr.Fields["content"])
}

func TestPost_GetUnknown(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.posts.Get(context.Background(), 404)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPost_RecentIsInvalidatedByCreate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	list, age, err := env.posts.Recent(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, age)

	env.clock.advance(time.Minute)
	_, age, err = env.posts.Recent(ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, age, "second read must be served from the cache")

	first, err := env.posts.Create(ctx, PostForm{Subject: "a", Content: "1"})
	require.NoError(t, err)

	list, age, err = env.posts.Recent(ctx)
	require.NoError(t, err)
	assert.Zero(t, age, "create must force the list back to the store")
	require.Len(t, list, 1)
	assert.Equal(t, first, list[0].ID)

	_, err = env.posts.Create(ctx, PostForm{Subject: "b", Content: "2"})
	require.NoError(t, err)
	third, err := env.posts.Create(ctx, PostForm{Subject: "c", Content: "3"})
	require.NoError(t, err)

	list, _, err = env.posts.Recent(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2, "front page is capped")
	assert.Equal(t, third, list[0].ID)
}

func TestPost_Forget(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	id, err := env.posts.Create(ctx, PostForm{Subject: "s", Content: "c"})
	require.NoError(t, err)

	env.clock.advance(time.Hour)
	env.posts.Forget(ctx, id)

	_, age, err := env.posts.Get(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, age)
}
