package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/internal/services"
	"github.com/nahid-dev/devconnect/backend/pkg/apperrors"
	"github.com/nahid-dev/devconnect/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// newRequestContext builds an echo context carrying an optional JSON body and,
// when userID is non-zero, the JWT claims the auth middleware would have set.
func newRequestContext(t *testing.T, method, target string, body any, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validators.NewValidator()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user", &models.JwtCustomClaims{UserID: userID})
	}
	return c, rec
}

// httpStatus unwraps the echo.HTTPError a handler returned.
func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code
}

// fakeUserRepo is an in-memory UserRepository mirroring the constraints the
// Postgres schema enforces: unique username, unique email, and a firebase_uid
// index that only binds non-NULL values, so any number of local accounts can
// coexist.
type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User), nextID: 1}
}

func (r *fakeUserRepo) add(user *models.User) *models.User {
	if user.ID == 0 {
		user.ID = r.nextID
	}
	if user.ID >= r.nextID {
		r.nextID = user.ID + 1
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return apperrors.Conflictf("user with this email or username already exists")
		}
		if u.FirebaseUID != nil && user.FirebaseUID != nil && *u.FirebaseUID == *user.FirebaseUID {
			return apperrors.Conflictf("user with this email or username already exists")
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.NotFoundf("user %d", id)
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NotFoundf("user with email %s", email)
}

func (r *fakeUserRepo) GetUserByUsername(username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperrors.NotFoundf("user %s", username)
}

func (r *fakeUserRepo) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	for _, u := range r.users {
		if u.FirebaseUID != nil && *u.FirebaseUID == firebaseUID {
			return u, nil
		}
	}
	return nil, apperrors.NotFoundf("user with firebase uid %s", firebaseUID)
}

func (r *fakeUserRepo) GetUsers() ([]models.User, error) { return nil, nil }

func (r *fakeUserRepo) UpdateUser(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) SearchUsers(query string, limit int) ([]models.User, error) {
	return nil, nil
}

// fakeNotificationRepo records created notifications and the limits requested
// from GetByRecipient.
type fakeNotificationRepo struct {
	created         []*models.Notification
	requestedLimits []int64
}

func (r *fakeNotificationRepo) CreateNotification(ctx context.Context, notification *models.Notification) error {
	r.created = append(r.created, notification)
	return nil
}

func (r *fakeNotificationRepo) GetByRecipient(ctx context.Context, recipientID string, limit int64) ([]models.Notification, error) {
	r.requestedLimits = append(r.requestedLimits, limit)
	out := make([]models.Notification, 0, len(r.created))
	for _, n := range r.created {
		if n.Recipient == recipientID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(ctx context.Context, recipientID string) (int64, error) {
	return 0, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, id string, recipientID string) error {
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, recipientID string) error {
	return nil
}

func (r *fakeNotificationRepo) DeleteNotification(ctx context.Context, id string, requesterID string) error {
	return nil
}

// fakePusher records live pushes; every user is offline.
type fakePusher struct {
	events []string
}

func (p *fakePusher) SendToUser(userID, event string, payload any) bool {
	p.events = append(p.events, event)
	return false
}

func newTestNotifier() (*services.Notifier, *fakeNotificationRepo) {
	repo := &fakeNotificationRepo{}
	return services.NewNotifier(repo, &fakePusher{}), repo
}
