package stores

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/spillway/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharingStore_ShareRefreshesCreated(t *testing.T) {
	created := []models.Share{{ID: "s1"}}
	var got models.ShareRequest
	api := &fakeAPI{
		shareVideo: func(req models.ShareRequest) (*models.Share, error) {
			got = req
			sh := models.Share{ID: "s2", VideoID: req.VideoID, SharedWithUsername: req.SharedWithUsername}
			created = append(created, sh)
			return &sh, nil
		},
		createdByMe: func() ([]models.Share, error) { return created, nil },
	}
	s := NewSharingStore(api)
	assert.False(t, s.HasCreatedShares())

	r := s.ShareVideo(context.Background(), models.ShareRequest{VideoID: "v1", SharedWithUsername: "bob", Permission: models.PermissionRead})

	require.True(t, r.Success)
	assert.Equal(t, "s2", r.Value.ID)
	assert.Equal(t, models.PermissionRead, got.Permission)
	assert.Equal(t, 1, api.count("SharesCreatedByMe"))
	assert.Equal(t, []string{"s1", "s2"}, ids(s.Created(), shareID))
	assert.True(t, s.HasCreatedShares())
	assert.False(t, s.Loading())
}

func TestSharingStore_ShareFailure(t *testing.T) {
	api := &fakeAPI{shareVideo: func(models.ShareRequest) (*models.Share, error) {
		return nil, validation("User not found")
	}}
	s := NewSharingStore(api)

	r := s.ShareVideo(context.Background(), models.ShareRequest{VideoID: "v1", SharedWithUsername: "ghost"})

	assert.False(t, r.Success)
	assert.Equal(t, "User not found", r.Error)
	assert.Equal(t, 0, api.count("SharesCreatedByMe"))
}

func TestSharingStore_RevokeRemovesEverywhere(t *testing.T) {
	api := &fakeAPI{
		createdByMe: func() ([]models.Share, error) { return []models.Share{{ID: "s1"}, {ID: "s2"}}, nil },
		withMe:      func() ([]models.Share, error) { return []models.Share{{ID: "s2"}, {ID: "s3"}}, nil },
		forVideo: func(id string) ([]models.Share, error) {
			if id == "v1" {
				return []models.Share{{ID: "s2"}}, nil
			}
			return []models.Share{{ID: "s2"}, {ID: "s4"}}, nil
		},
		revokeShare: func(string) error { return nil },
	}
	s := NewSharingStore(api)
	ctx := context.Background()
	require.True(t, s.MyCreatedShares(ctx).Success)
	require.True(t, s.SharedWithMe(ctx).Success)
	require.True(t, s.SharesForVideo(ctx, "v1").Success)
	require.True(t, s.SharesForVideo(ctx, "v2").Success)
	assert.True(t, s.HasSharedVideos())

	require.True(t, s.RevokeShare(ctx, "s2").Success)

	assert.Equal(t, []string{"s1"}, ids(s.Created(), shareID))
	assert.Equal(t, []string{"s3"}, ids(s.WithMe(), shareID))
	assert.Empty(t, s.ForVideo("v1"))
	assert.Equal(t, []string{"s4"}, ids(s.ForVideo("v2"), shareID))
}

func TestSharingStore_GetShareAndReset(t *testing.T) {
	api := &fakeAPI{
		getShare: func(id string) (*models.Share, error) { return &models.Share{ID: id, Active: true}, nil },
		withMe:   func() ([]models.Share, error) { return []models.Share{{ID: "s1"}}, nil },
	}
	s := NewSharingStore(api)

	r := s.GetShare(context.Background(), "s9")
	require.True(t, r.Success)
	assert.True(t, r.Value.Active)

	require.True(t, s.SharedWithMe(context.Background()).Success)
	s.Reset()
	assert.False(t, s.HasSharedVideos())
	assert.Empty(t, s.ForVideo("v1"))
}

func TestSharingStore_RevokeUnauthorized(t *testing.T) {
	api := &fakeAPI{
		createdByMe: func() ([]models.Share, error) { return []models.Share{{ID: "s1"}}, nil },
		revokeShare: func(string) error { return unauthorized() },
	}
	s := NewSharingStore(api)
	require.True(t, s.MyCreatedShares(context.Background()).Success)

	r := s.RevokeShare(context.Background(), "s1")

	assert.False(t, r.Success)
	assert.True(t, r.Unauthorized)
	assert.Len(t, s.Created(), 1)
}
