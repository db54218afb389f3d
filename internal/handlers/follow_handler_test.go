package handlers

import (
	"net/http"
	"testing"

	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type followPair struct{ follower, following uint }

// fakeFollowRepo is an in-memory FollowRepository; both composite unique
// indexes (follow edge, pending request) surface duplicates as conflicts.
type fakeFollowRepo struct {
	follows  map[followPair]bool
	requests map[followPair]bool
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{
		follows:  make(map[followPair]bool),
		requests: make(map[followPair]bool),
	}
}

func (r *fakeFollowRepo) CreateFollow(follow *models.Follow) error {
	key := followPair{follow.FollowerID, follow.FollowingID}
	if r.follows[key] {
		return apperrors.Conflictf("already following this user")
	}
	r.follows[key] = true
	return nil
}

func (r *fakeFollowRepo) DeleteFollow(followerID, followingID uint) error {
	key := followPair{followerID, followingID}
	if !r.follows[key] {
		return apperrors.NotFoundf("not following this user")
	}
	delete(r.follows, key)
	return nil
}

func (r *fakeFollowRepo) IsFollowing(followerID, followingID uint) (bool, error) {
	return r.follows[followPair{followerID, followingID}], nil
}

func (r *fakeFollowRepo) GetFollowingIDs(followerID uint) ([]uint, error) {
	var ids []uint
	for pair := range r.follows {
		if pair.follower == followerID {
			ids = append(ids, pair.following)
		}
	}
	return ids, nil
}

func (r *fakeFollowRepo) GetFollowers(userID uint) ([]models.Follow, error) {
	var out []models.Follow
	for pair := range r.follows {
		if pair.following == userID {
			out = append(out, models.Follow{FollowerID: pair.follower, FollowingID: pair.following})
		}
	}
	return out, nil
}

func (r *fakeFollowRepo) GetFollowing(userID uint) ([]models.Follow, error) {
	var out []models.Follow
	for pair := range r.follows {
		if pair.follower == userID {
			out = append(out, models.Follow{FollowerID: pair.follower, FollowingID: pair.following})
		}
	}
	return out, nil
}

func (r *fakeFollowRepo) CreateFollowRequest(req *models.FollowRequest) error {
	key := followPair{req.RequesterID, req.TargetID}
	if r.requests[key] {
		return apperrors.Conflictf("follow request already sent")
	}
	r.requests[key] = true
	return nil
}

func (r *fakeFollowRepo) DeleteFollowRequest(requesterID, targetID uint) error {
	key := followPair{requesterID, targetID}
	if !r.requests[key] {
		return apperrors.NotFoundf("follow request not found")
	}
	delete(r.requests, key)
	return nil
}

func (r *fakeFollowRepo) HasFollowRequest(requesterID, targetID uint) (bool, error) {
	return r.requests[followPair{requesterID, targetID}], nil
}

func (r *fakeFollowRepo) GetFollowRequests(targetID uint) ([]models.FollowRequest, error) {
	var out []models.FollowRequest
	for pair := range r.requests {
		if pair.following == targetID {
			out = append(out, models.FollowRequest{RequesterID: pair.follower, TargetID: pair.following})
		}
	}
	return out, nil
}

func newFollowFixture() (*FollowHandler, *fakeFollowRepo, *fakeUserRepo, *fakeNotificationRepo) {
	follows := newFakeFollowRepo()
	users := newFakeUserRepo()
	users.add(&models.User{ID: 1, Name: "Alice", Username: "alice", Email: "alice@example.com"})
	users.add(&models.User{ID: 2, Name: "Bob", Username: "bob", Email: "bob@example.com"})
	notifier, notifications := newTestNotifier()
	return NewFollowHandler(follows, users, notifier), follows, users, notifications
}

func TestSendFollowRequestRejectsSelf(t *testing.T) {
	h, follows, _, _ := newFollowFixture()

	c, _ := newRequestContext(t, http.MethodPost, "/api/v1/users/1/follow", nil, 1)
	c.SetParamNames("id")
	c.SetParamValues("1")

	assert.Equal(t, http.StatusBadRequest, httpStatus(t, h.SendFollowRequest(c)))
	assert.Empty(t, follows.requests)
}

func TestSendFollowRequestCreatesPendingRequest(t *testing.T) {
	h, follows, _, notifications := newFollowFixture()

	c, rec := newRequestContext(t, http.MethodPost, "/api/v1/users/2/follow", nil, 1)
	c.SetParamNames("id")
	c.SetParamValues("2")

	require.NoError(t, h.SendFollowRequest(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, follows.requests[followPair{1, 2}])

	require.Len(t, notifications.created, 1)
	assert.Equal(t, models.NotificationFollowRequest, notifications.created[0].Type)
	assert.Equal(t, "2", notifications.created[0].Recipient)
}

func TestSendFollowRequestAlreadyPendingConflicts(t *testing.T) {
	h, follows, _, _ := newFollowFixture()
	follows.requests[followPair{1, 2}] = true

	c, _ := newRequestContext(t, http.MethodPost, "/api/v1/users/2/follow", nil, 1)
	c.SetParamNames("id")
	c.SetParamValues("2")

	assert.Equal(t, http.StatusConflict, httpStatus(t, h.SendFollowRequest(c)))
}
