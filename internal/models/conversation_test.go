package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParticipantKeyIsOrderIndependent(t *testing.T) {
	assert.Equal(t, ParticipantKey("1", "2"), ParticipantKey("2", "1"))
	assert.Equal(t, "1:2", ParticipantKey("2", "1"))
}

func TestConversationParticipants(t *testing.T) {
	conv := Conversation{Participants: []string{"1", "2"}}

	assert.True(t, conv.HasParticipant("1"))
	assert.True(t, conv.HasParticipant("2"))
	assert.False(t, conv.HasParticipant("3"))

	assert.Equal(t, "2", conv.OtherParticipant("1"))
	assert.Equal(t, "1", conv.OtherParticipant("2"))
}
