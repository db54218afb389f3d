package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/internal/realtime"
	"github.com/nahid-dev/devconnect/backend/internal/repositories"
	"github.com/nahid-dev/devconnect/backend/pkg/apperrors"
)

// MessengerService coordinates message delivery: it appends the durable
// message, updates the conversation's pointers and counters, and only then
// attempts the best-effort live push. A sender's success never depends on the
// push outcome.
type MessengerService struct {
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
	users         repositories.UserRepository
	notifier      *Notifier
	pusher        LivePusher
}

// NewMessengerService creates a new MessengerService
func NewMessengerService(
	conversationRepo repositories.ConversationRepository,
	messageRepo repositories.MessageRepository,
	userRepo repositories.UserRepository,
	notifier *Notifier,
	pusher LivePusher,
) *MessengerService {
	return &MessengerService{
		conversations: conversationRepo,
		messages:      messageRepo,
		users:         userRepo,
		notifier:      notifier,
		pusher:        pusher,
	}
}

// ConversationView is a conversation hydrated with participant profiles and
// its last message, as returned by the conversation list endpoint.
type ConversationView struct {
	models.Conversation
	ParticipantProfiles []models.UserCompact `json:"participant_profiles"`
	LastMessageBody     *models.Message      `json:"last_message_body,omitempty"`
}

// MessageReadPush is the payload of a message:read event sent to the other
// participant when a conversation is marked read.
type MessageReadPush struct {
	ConversationID string `json:"conversation_id"`
	ReaderID       string `json:"reader_id"`
}

// UserIDString converts a relational user ID to the string form used in the
// messaging collections.
func UserIDString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// StartConversation returns the conversation between requester and recipient,
// creating it if this is their first contact.
func (s *MessengerService) StartConversation(ctx context.Context, requesterID, recipientID uint) (*models.Conversation, error) {
	if requesterID == recipientID {
		return nil, apperrors.Validationf("cannot message yourself")
	}
	if _, err := s.users.GetUserByID(recipientID); err != nil {
		return nil, err
	}
	return s.conversations.GetOrCreate(ctx, UserIDString(requesterID), UserIDString(recipientID))
}

// ListConversations returns the user's conversations, most recently active
// first, hydrated with participant profiles and last messages.
func (s *MessengerService) ListConversations(ctx context.Context, userID uint) ([]ConversationView, error) {
	conversations, err := s.conversations.ListForUser(ctx, UserIDString(userID))
	if err != nil {
		return nil, err
	}

	profileCache := make(map[string]models.UserCompact)
	views := make([]ConversationView, 0, len(conversations))
	for _, conv := range conversations {
		view := ConversationView{Conversation: conv}
		for _, participant := range conv.Participants {
			profile, ok := profileCache[participant]
			if !ok {
				id, err := strconv.ParseUint(participant, 10, 32)
				if err != nil {
					continue
				}
				user, err := s.users.GetUserByID(uint(id))
				if err != nil {
					continue
				}
				profile = user.ToCompact()
				profileCache[participant] = profile
			}
			view.ParticipantProfiles = append(view.ParticipantProfiles, profile)
		}
		if conv.LastMessage != nil {
			if msg, err := s.messages.GetMessageByID(ctx, conv.LastMessage.Hex()); err == nil {
				view.LastMessageBody = msg
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// SendMessage appends a message to the conversation and delivers it. The
// message is durable once this returns; the live push and the message
// notification are best-effort afterthoughts.
func (s *MessengerService) SendMessage(ctx context.Context, senderID uint, conversationID string, req models.SendMessageRequest) (*models.Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.Validationf("message content is required")
	}
	if len(content) > models.MaxMessageContentLength {
		return nil, apperrors.Validationf("message content exceeds %d characters", models.MaxMessageContentLength)
	}

	conversation, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	sender := UserIDString(senderID)
	if !conversation.HasParticipant(sender) {
		return nil, apperrors.Authorizationf("not a participant of this conversation")
	}
	recipient := conversation.OtherParticipant(sender)

	message := &models.Message{
		Conversation: conversation.ID,
		Sender:       sender,
		Recipient:    recipient,
		Content:      content,
		Attachments:  req.Attachments,
	}
	if err := s.messages.CreateMessage(ctx, message); err != nil {
		return nil, err
	}
	if err := s.conversations.RecordNewMessage(ctx, conversation.ID, message.ID, recipient, message.CreatedAt); err != nil {
		return nil, err
	}

	// Durable from here on; everything below is best-effort.
	s.pusher.SendToUser(recipient, realtime.EventMessageReceive, message)
	s.notifier.Notify(ctx, &models.Notification{
		Recipient: recipient,
		Sender:    sender,
		Type:      models.NotificationMessage,
		Ref:       &models.NotificationRef{Kind: "message", ID: message.ID.Hex()},
		Message:   "sent you a message",
	})

	return message, nil
}

// ListMessages returns a page of the conversation's messages in chronological
// order. Only participants may read.
func (s *MessengerService) ListMessages(ctx context.Context, requesterID uint, conversationID string, before *time.Time, limit int64) ([]models.Message, error) {
	conversation, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(UserIDString(requesterID)) {
		return nil, apperrors.Authorizationf("not a participant of this conversation")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.messages.ListMessages(ctx, conversation.ID, before, limit)
}

// MarkConversationRead marks every message addressed to the reader as read
// and resets the reader's unread counter, in that order. If the counter
// update fails the messages stay read; the caller can retry.
func (s *MessengerService) MarkConversationRead(ctx context.Context, readerID uint, conversationID string) error {
	conversation, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}

	reader := UserIDString(readerID)
	if !conversation.HasParticipant(reader) {
		return apperrors.Authorizationf("not a participant of this conversation")
	}

	if err := s.messages.MarkAllRead(ctx, conversation.ID, reader); err != nil {
		return err
	}
	if err := s.conversations.MarkRead(ctx, conversation.ID, reader); err != nil {
		return err
	}

	s.pusher.SendToUser(conversation.OtherParticipant(reader), realtime.EventMessageRead, MessageReadPush{
		ConversationID: conversationID,
		ReaderID:       reader,
	})
	return nil
}

// DeleteMessage removes a message; only its sender may delete it.
func (s *MessengerService) DeleteMessage(ctx context.Context, requesterID uint, messageID string) error {
	return s.messages.DeleteMessage(ctx, messageID, UserIDString(requesterID))
}
