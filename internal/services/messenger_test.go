package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- in-memory fakes ---

type fakeUserRepo struct {
	users map[uint]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uint]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFoundf("user not found")
	}
	return user, nil
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NotFoundf("user not found")
}

func (r *fakeUserRepo) GetUserByUsername(username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperrors.NotFoundf("user not found")
}

func (r *fakeUserRepo) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	return nil, apperrors.NotFoundf("user not found")
}

func (r *fakeUserRepo) GetUsers() ([]models.User, error) { return nil, nil }

func (r *fakeUserRepo) UpdateUser(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) SearchUsers(query string, limit int) ([]models.User, error) {
	return nil, nil
}

type fakeConversationRepo struct {
	byKey map[string]*models.Conversation
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{byKey: make(map[string]*models.Conversation)}
}

func (r *fakeConversationRepo) GetOrCreate(ctx context.Context, a, b string) (*models.Conversation, error) {
	key := models.ParticipantKey(a, b)
	if conv, ok := r.byKey[key]; ok {
		return conv, nil
	}
	now := time.Now()
	conv := &models.Conversation{
		ID:             primitive.NewObjectID(),
		Participants:   []string{a, b},
		ParticipantKey: key,
		LastMessageAt:  now,
		UnreadCount:    map[string]int64{a: 0, b: 0},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	r.byKey[key] = conv
	return conv, nil
}

func (r *fakeConversationRepo) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	for _, conv := range r.byKey {
		if conv.ID.Hex() == id {
			return conv, nil
		}
	}
	return nil, apperrors.NotFoundf("conversation not found")
}

func (r *fakeConversationRepo) ListForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	conversations := make([]models.Conversation, 0)
	for _, conv := range r.byKey {
		if conv.HasParticipant(userID) {
			conversations = append(conversations, *conv)
		}
	}
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].LastMessageAt.After(conversations[j].LastMessageAt)
	})
	return conversations, nil
}

func (r *fakeConversationRepo) RecordNewMessage(ctx context.Context, conversationID, messageID primitive.ObjectID, recipientID string, at time.Time) error {
	for _, conv := range r.byKey {
		if conv.ID == conversationID {
			msgID := messageID
			conv.LastMessage = &msgID
			conv.LastMessageAt = at
			conv.UpdatedAt = at
			conv.UnreadCount[recipientID]++
			return nil
		}
	}
	return apperrors.NotFoundf("conversation not found")
}

func (r *fakeConversationRepo) MarkRead(ctx context.Context, conversationID primitive.ObjectID, readerID string) error {
	for _, conv := range r.byKey {
		if conv.ID == conversationID {
			conv.UnreadCount[readerID] = 0
			return nil
		}
	}
	return apperrors.NotFoundf("conversation not found")
}

type fakeMessageRepo struct {
	messages []*models.Message
	clock    time.Time
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{clock: time.Now()}
}

func (r *fakeMessageRepo) CreateMessage(ctx context.Context, message *models.Message) error {
	// Monotonic timestamps keep ordering deterministic within a test.
	r.clock = r.clock.Add(time.Millisecond)
	message.ID = primitive.NewObjectID()
	message.CreatedAt = r.clock
	message.IsRead = false
	r.messages = append(r.messages, message)
	return nil
}

func (r *fakeMessageRepo) GetMessageByID(ctx context.Context, id string) (*models.Message, error) {
	for _, m := range r.messages {
		if m.ID.Hex() == id {
			return m, nil
		}
	}
	return nil, apperrors.NotFoundf("message not found")
}

func (r *fakeMessageRepo) ListMessages(ctx context.Context, conversationID primitive.ObjectID, before *time.Time, limit int64) ([]models.Message, error) {
	matched := make([]models.Message, 0)
	for _, m := range r.messages {
		if m.Conversation != conversationID {
			continue
		}
		if before != nil && !m.CreatedAt.Before(*before) {
			continue
		}
		matched = append(matched, *m)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	if int64(len(matched)) > limit {
		matched = matched[int64(len(matched))-limit:]
	}
	return matched, nil
}

func (r *fakeMessageRepo) MarkAllRead(ctx context.Context, conversationID primitive.ObjectID, readerID string) error {
	now := time.Now()
	for _, m := range r.messages {
		if m.Conversation == conversationID && m.Recipient == readerID && !m.IsRead {
			m.IsRead = true
			m.ReadAt = &now
		}
	}
	return nil
}

func (r *fakeMessageRepo) DeleteMessage(ctx context.Context, id string, requesterID string) error {
	for i, m := range r.messages {
		if m.ID.Hex() == id {
			if m.Sender != requesterID {
				return apperrors.Authorizationf("only the sender can delete a message")
			}
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFoundf("message not found")
}

type fakeNotificationRepo struct {
	created []models.Notification
	failing bool
}

func (r *fakeNotificationRepo) CreateNotification(ctx context.Context, notification *models.Notification) error {
	if r.failing {
		return assert.AnError
	}
	r.created = append(r.created, *notification)
	return nil
}

func (r *fakeNotificationRepo) GetByRecipient(ctx context.Context, recipientID string, limit int64) ([]models.Notification, error) {
	return nil, nil
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

type pushedEvent struct {
	UserID  string
	Event   string
	Payload any
}

type fakePusher struct {
	pushed []pushedEvent
	online map[string]bool
}

func newFakePusher(onlineUsers ...string) *fakePusher {
	online := make(map[string]bool)
	for _, id := range onlineUsers {
		online[id] = true
	}
	return &fakePusher{online: online}
}

func (p *fakePusher) SendToUser(userID, event string, payload any) bool {
	p.pushed = append(p.pushed, pushedEvent{UserID: userID, Event: event, Payload: payload})
	return p.online[userID]
}

func (p *fakePusher) eventsFor(userID string) []pushedEvent {
	events := make([]pushedEvent, 0)
	for _, ev := range p.pushed {
		if ev.UserID == userID {
			events = append(events, ev)
		}
	}
	return events
}

// --- fixtures ---

type messengerFixture struct {
	messenger     *MessengerService
	conversations *fakeConversationRepo
	messages      *fakeMessageRepo
	notifications *fakeNotificationRepo
	pusher        *fakePusher
}

func newMessengerFixture(t *testing.T, onlineUsers ...string) *messengerFixture {
	t.Helper()
	users := newFakeUserRepo(
		&models.User{ID: 1, Name: "Alice", Username: "alice", Email: "alice@example.com"},
		&models.User{ID: 2, Name: "Bob", Username: "bob", Email: "bob@example.com"},
		&models.User{ID: 3, Name: "Carol", Username: "carol", Email: "carol@example.com"},
	)
	conversations := newFakeConversationRepo()
	messages := newFakeMessageRepo()
	notifications := &fakeNotificationRepo{}
	pusher := newFakePusher(onlineUsers...)
	notifier := NewNotifier(notifications, pusher)
	return &messengerFixture{
		messenger:     NewMessengerService(conversations, messages, users, notifier, pusher),
		conversations: conversations,
		messages:      messages,
		notifications: notifications,
		pusher:        pusher,
	}
}

// --- tests ---

func TestStartConversationRejectsSelf(t *testing.T) {
	f := newMessengerFixture(t)
	_, err := f.messenger.StartConversation(context.Background(), 1, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestStartConversationUnknownRecipient(t *testing.T) {
	f := newMessengerFixture(t)
	_, err := f.messenger.StartConversation(context.Background(), 1, 99)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStartConversationIsIdempotent(t *testing.T) {
	f := newMessengerFixture(t)
	ctx := context.Background()

	first, err := f.messenger.StartConversation(ctx, 1, 2)
	require.NoError(t, err)

	// Starting again from either side resolves to the same conversation.
	again, err := f.messenger.StartConversation(ctx, 1, 2)
	require.NoError(t, err)
	reversed, err := f.messenger.StartConversation(ctx, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, first.ID, reversed.ID)
}

func TestSendMessageSucceedsWhileRecipientOffline(t *testing.T) {
	f := newMessengerFixture(t) // nobody online
	ctx := context.Background()

	conv, err := f.messenger.StartConversation(ctx, 1, 2)
	require.NoError(t, err)

	msg, err := f.messenger.SendMessage(ctx, 1, conv.ID.Hex(), models.SendMessageRequest{Content: "hey"})
	require.NoError(t, err, "an offline recipient must not fail the send")
	assert.Equal(t, "1", msg.Sender)
	assert.Equal(t, "2", msg.Recipient)
	assert.False(t, msg.IsRead)

	// Durable regardless of delivery.
	stored, err := f.messages.GetMessageByID(ctx, msg.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "hey", stored.Content)
}

func TestSendMessageUpdatesConversationState(t *testing.T) {
	f := newMessengerFixture(t, "2")
	ctx := context.Background()

	conv, err := f.messenger.StartConversation(ctx, 1, 2)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := f.messenger.SendMessage(ctx, 1, conv.ID.Hex(), models.SendMessageRequest{Content: "ping"})
		require.NoError(t, err)
	}

	updated, err := f.conversations.GetByID(ctx, conv.ID.Hex())
	require.NoError(t, err)
	assert.EqualValues(t, 3, updated.UnreadCount["2"], "each send increments the recipient's unread counter")
	assert.EqualValues(t, 0, updated.UnreadCount["1"], "the sender's counter is untouched")
	require.NotNil(t, updated.LastMessage)

	// Recipient got one live push per message, plus the message notification.
	receives := 0
	for _, ev := range f.pusher.eventsFor("2") {
		if ev.Event == "message:receive" {
			receives++
		}
	}
	assert.Equal(t, 3, receives)
}

func TestSendMessageRequiresMembership(t *testing.T) {
	f := newMessengerFixture(t)
	ctx := context.Background()

	conv, err := f.messenger.StartConversation(ctx, 1, 2)
	require.NoError(t, err)

	_, err = f.messenger.SendMessage(ctx, 3, conv.ID.Hex(), models.SendMessageRequest{Content: "intruding"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAuthorization)
}

func TestSendMessageRejectsBlankContent(t *testing.T) {
	f := newMessengerFixture(t)
	ctx := context.Background()

	conv, err := f.messenger.StartConversation(ctx, 1, 2)
	require.NoError(t, err)

	_, err = f.messenger.SendMessage(ctx, 1, conv.ID.Hex(), models.SendMessageRequest{Content: "   "})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestMarkConversationRead(t *testing.T) {
	f := newMessengerFixture(t, "1")
	ctx := context.Background()

	conv, err := f.messenger.StartConversation(ctx, 1, 2)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err := f.messenger.SendMessage(ctx, 1, conv.ID.Hex(), models.SendMessageRequest{Content: "ping"})
		require.NoError(t, err)
	}

	require.NoError(t, f.messenger.MarkConversationRead(ctx, 2, conv.ID.Hex()))

	updated, err := f.conversations.GetByID(ctx, conv.ID.Hex())
	require.NoError(t, err)
	assert.EqualValues(t, 0, updated.UnreadCount["2"])

	messages, err := f.messenger.ListMessages(ctx, 2, conv.ID.Hex(), nil, 10)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	for _, m := range messages {
		assert.True(t, m.IsRead)
		assert.NotNil(t, m.ReadAt)
	}

	// The sender is told their messages were read.
	events := f.pusher.eventsFor("1")
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, "message:read", last.Event)
	assert.Equal(t, MessageReadPush{ConversationID: conv.ID.Hex(), ReaderID: "2"}, last.Payload)
}

func TestMarkConversationReadRequiresMembership(t *testing.T) {
	f := newMessengerFixture(t)
	ctx := context.Background()

	conv, err := f.messenger.StartConversation(ctx, 1, 2)
	require.NoError(t, err)

	err = f.messenger.MarkConversationRead(ctx, 3, conv.ID.Hex())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAuthorization)
}

func TestListMessagesPagination(t *testing.T) {
	f := newMessengerFixture(t)
	ctx := context.Background()

	conv, err := f.messenger.StartConversation(ctx, 1, 2)
	require.NoError(t, err)
	contents := []string{"one", "two", "three", "four"}
	for _, content := range contents {
		_, err := f.messenger.SendMessage(ctx, 1, conv.ID.Hex(), models.SendMessageRequest{Content: content})
		require.NoError(t, err)
	}

	// Latest page first, in chronological order within the page.
	page, err := f.messenger.ListMessages(ctx, 2, conv.ID.Hex(), nil, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "three", page[0].Content)
	assert.Equal(t, "four", page[1].Content)

	// Cursor continues backward from the oldest returned message.
	older, err := f.messenger.ListMessages(ctx, 2, conv.ID.Hex(), &page[0].CreatedAt, 2)
	require.NoError(t, err)
	require.Len(t, older, 2)
	assert.Equal(t, "one", older[0].Content)
	assert.Equal(t, "two", older[1].Content)
}

func TestDeleteMessageOnlySender(t *testing.T) {
	f := newMessengerFixture(t)
	ctx := context.Background()

	conv, err := f.messenger.StartConversation(ctx, 1, 2)
	require.NoError(t, err)
	msg, err := f.messenger.SendMessage(ctx, 1, conv.ID.Hex(), models.SendMessageRequest{Content: "oops"})
	require.NoError(t, err)

	err = f.messenger.DeleteMessage(ctx, 2, msg.ID.Hex())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAuthorization)

	require.NoError(t, f.messenger.DeleteMessage(ctx, 1, msg.ID.Hex()))
	_, err = f.messages.GetMessageByID(ctx, msg.ID.Hex())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListConversationsHydration(t *testing.T) {
	f := newMessengerFixture(t)
	ctx := context.Background()

	conv, err := f.messenger.StartConversation(ctx, 1, 2)
	require.NoError(t, err)
	msg, err := f.messenger.SendMessage(ctx, 1, conv.ID.Hex(), models.SendMessageRequest{Content: "latest"})
	require.NoError(t, err)

	views, err := f.messenger.ListConversations(ctx, 2)
	require.NoError(t, err)
	require.Len(t, views, 1)

	view := views[0]
	assert.Len(t, view.ParticipantProfiles, 2)
	require.NotNil(t, view.LastMessageBody)
	assert.Equal(t, msg.ID, view.LastMessageBody.ID)
	assert.Equal(t, "latest", view.LastMessageBody.Content)
}
