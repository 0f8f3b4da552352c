package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dtroode/streamhub-server/internal/model"
)

func TestManager_SetAndGetActor(t *testing.T) {
	m := NewManager()
	actor := model.Actor{ID: primitive.NewObjectID(), Username: "alice", Email: "alice@example.com"}

	ctx := m.SetActorToContext(context.Background(), actor)

	got, ok := m.GetActorFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, actor, got)
}

func TestManager_GetActor_Missing(t *testing.T) {
	m := NewManager()

	_, ok := m.GetActorFromContext(context.Background())
	assert.False(t, ok)
}

func TestManager_GetActor_ZeroID(t *testing.T) {
	m := NewManager()
	ctx := m.SetActorToContext(context.Background(), model.Actor{Username: "nobody"})

	_, ok := m.GetActorFromContext(ctx)
	assert.False(t, ok)
}

func TestManager_OverridesPreviousActor(t *testing.T) {
	m := NewManager()
	first := model.Actor{ID: primitive.NewObjectID()}
	second := model.Actor{ID: primitive.NewObjectID()}

	ctx := m.SetActorToContext(context.Background(), first)
	ctx = m.SetActorToContext(ctx, second)

	got, ok := m.GetActorFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, second.ID, got.ID)
}
