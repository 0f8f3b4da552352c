package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dtroode/streamhub-server/internal/apierrors"
	servermocks "github.com/dtroode/streamhub-server/internal/mocks"
	"github.com/dtroode/streamhub-server/internal/model"
	"github.com/dtroode/streamhub-server/internal/testutil"
)

func TestChannel_ChannelDetail(t *testing.T) {
	ctx := context.Background()
	actor := model.Actor{ID: primitive.NewObjectID()}
	profile := model.ChannelProfile{
		ID:                primitive.NewObjectID(),
		Username:          "bob",
		SubscribersCount:  3,
		SubscribedToCount: 1,
		IsSubscribed:      true,
	}

	tests := []struct {
		name      string
		username  string
		mockSetup func(*servermocks.ProfileStore)
		wantKind  apierrors.Kind
		wantErr   bool
	}{
		{
			name:     "found, username normalized",
			username: "  Bob ",
			mockSetup: func(s *servermocks.ProfileStore) {
				s.On("ChannelProfile", ctx, "bob", actor.ID).Return(profile, nil).Once()
			},
		},
		{
			name:      "blank username",
			username:  "   ",
			mockSetup: func(*servermocks.ProfileStore) {},
			wantKind:  apierrors.KindNotFound,
			wantErr:   true,
		},
		{
			name:     "unknown channel",
			username: "ghost",
			mockSetup: func(s *servermocks.ProfileStore) {
				s.On("ChannelProfile", ctx, "ghost", actor.ID).Return(model.ChannelProfile{}, model.ErrNotFound).Once()
			},
			wantKind: apierrors.KindNotFound,
			wantErr:  true,
		},
		{
			name:     "store failure",
			username: "bob",
			mockSetup: func(s *servermocks.ProfileStore) {
				s.On("ChannelProfile", ctx, "bob", actor.ID).Return(model.ChannelProfile{}, assert.AnError).Once()
			},
			wantKind: apierrors.KindInternal,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &servermocks.ProfileStore{}
			tt.mockSetup(store)

			svc := NewChannel(store, testutil.MakeNoopLogger())

			res, err := svc.ChannelDetail(ctx, actor, tt.username)
			if tt.wantErr {
				assert.True(t, apierrors.IsKind(err, tt.wantKind))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, res.Status)
			assert.Equal(t, profile, res.Data)
			store.AssertExpectations(t)
		})
	}

	t.Run("blank username never reaches the store", func(t *testing.T) {
		store := &servermocks.ProfileStore{}
		svc := NewChannel(store, testutil.MakeNoopLogger())

		_, _ = svc.ChannelDetail(ctx, actor, "")
		store.AssertNotCalled(t, "ChannelProfile", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestChannel_WatchHistory(t *testing.T) {
	ctx := context.Background()
	actor := model.Actor{ID: primitive.NewObjectID()}

	t.Run("empty history is an empty list", func(t *testing.T) {
		store := &servermocks.ProfileStore{}
		store.On("WatchHistory", ctx, actor.ID).Return([]model.WatchHistoryEntry(nil), nil).Once()

		svc := NewChannel(store, testutil.MakeNoopLogger())

		res, err := svc.WatchHistory(ctx, actor)
		require.NoError(t, err)
		history, ok := res.Data.([]model.WatchHistoryEntry)
		require.True(t, ok)
		assert.NotNil(t, history)
		assert.Empty(t, history)
	})

	t.Run("entries are passed through in order", func(t *testing.T) {
		entries := []model.WatchHistoryEntry{
			{ID: primitive.NewObjectID(), Title: "second"},
			{ID: primitive.NewObjectID(), Title: "first"},
		}
		store := &servermocks.ProfileStore{}
		store.On("WatchHistory", ctx, actor.ID).Return(entries, nil).Once()

		svc := NewChannel(store, testutil.MakeNoopLogger())

		res, err := svc.WatchHistory(ctx, actor)
		require.NoError(t, err)
		assert.Equal(t, entries, res.Data)
	})

	t.Run("store failure is internal", func(t *testing.T) {
		store := &servermocks.ProfileStore{}
		store.On("WatchHistory", ctx, actor.ID).Return([]model.WatchHistoryEntry(nil), assert.AnError).Once()

		svc := NewChannel(store, testutil.MakeNoopLogger())

		_, err := svc.WatchHistory(ctx, actor)
		assert.True(t, apierrors.IsKind(err, apierrors.KindInternal))
	})
}
