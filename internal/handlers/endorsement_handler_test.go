package handlers

import (
	"net/http"
	"testing"

	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEndorsementRepo is an in-memory EndorsementRepository; the composite
// (from, to, skill) unique index surfaces duplicates as conflicts.
type fakeEndorsementRepo struct {
	endorsements []*models.Endorsement
	nextID       uint
}

func (r *fakeEndorsementRepo) CreateEndorsement(endorsement *models.Endorsement) error {
	for _, e := range r.endorsements {
		if e.FromID == endorsement.FromID && e.ToID == endorsement.ToID && e.Skill == endorsement.Skill {
			return apperrors.Conflictf("already endorsed this skill")
		}
	}
	r.nextID++
	endorsement.ID = r.nextID
	r.endorsements = append(r.endorsements, endorsement)
	return nil
}

func (r *fakeEndorsementRepo) GetByRecipient(toID uint) ([]models.Endorsement, error) {
	var out []models.Endorsement
	for _, e := range r.endorsements {
		if e.ToID == toID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEndorsementRepo) GetByGiver(fromID uint) ([]models.Endorsement, error) {
	var out []models.Endorsement
	for _, e := range r.endorsements {
		if e.FromID == fromID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEndorsementRepo) DeleteEndorsement(id, fromID uint) error {
	for i, e := range r.endorsements {
		if e.ID == id && e.FromID == fromID {
			r.endorsements = append(r.endorsements[:i], r.endorsements[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFoundf("endorsement %d", id)
}

func newEndorsementFixture() (*EndorsementHandler, *fakeEndorsementRepo, *fakeNotificationRepo) {
	endorsements := &fakeEndorsementRepo{}
	users := newFakeUserRepo()
	users.add(&models.User{ID: 1, Name: "Alice", Username: "alice", Email: "alice@example.com", Skills: []string{"Go"}})
	users.add(&models.User{ID: 2, Name: "Bob", Username: "bob", Email: "bob@example.com", Skills: []string{"Go", "Postgres"}})
	notifier, notifications := newTestNotifier()
	return NewEndorsementHandler(endorsements, users, notifier), endorsements, notifications
}

func TestCreateEndorsementRejectsSelf(t *testing.T) {
	h, endorsements, _ := newEndorsementFixture()

	body := models.CreateEndorsementRequest{UserID: 1, Skill: "Go"}
	c, _ := newRequestContext(t, http.MethodPost, "/api/v1/endorsements", body, 1)

	assert.Equal(t, http.StatusBadRequest, httpStatus(t, h.CreateEndorsement(c)))
	assert.Empty(t, endorsements.endorsements)
}

func TestCreateEndorsementRequiresListedSkill(t *testing.T) {
	h, endorsements, _ := newEndorsementFixture()

	body := models.CreateEndorsementRequest{UserID: 2, Skill: "Haskell"}
	c, _ := newRequestContext(t, http.MethodPost, "/api/v1/endorsements", body, 1)

	assert.Equal(t, http.StatusBadRequest, httpStatus(t, h.CreateEndorsement(c)))
	assert.Empty(t, endorsements.endorsements)
}

func TestCreateEndorsementNotifiesRecipient(t *testing.T) {
	h, endorsements, notifications := newEndorsementFixture()

	body := models.CreateEndorsementRequest{UserID: 2, Skill: "Postgres", Message: "Schema wizard"}
	c, rec := newRequestContext(t, http.MethodPost, "/api/v1/endorsements", body, 1)

	require.NoError(t, h.CreateEndorsement(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, endorsements.endorsements, 1)

	require.Len(t, notifications.created, 1)
	assert.Equal(t, models.NotificationEndorsement, notifications.created[0].Type)
	assert.Equal(t, "2", notifications.created[0].Recipient)
}

func TestCreateEndorsementDuplicateConflicts(t *testing.T) {
	h, _, _ := newEndorsementFixture()

	body := models.CreateEndorsementRequest{UserID: 2, Skill: "Go"}
	c, rec := newRequestContext(t, http.MethodPost, "/api/v1/endorsements", body, 1)
	require.NoError(t, h.CreateEndorsement(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, _ = newRequestContext(t, http.MethodPost, "/api/v1/endorsements", body, 1)
	assert.Equal(t, http.StatusConflict, httpStatus(t, h.CreateEndorsement(c)))
}
