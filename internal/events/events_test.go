package events

import (
	"encoding/json"
	"testing"

	"github.com/barachat/gateway/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsRejectMissingFields(t *testing.T) {
	_, err := NewMessage("", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = NewMessage("channel-1", nil)
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = NewMessageDelete("", "channel-1")
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = NewServerMemberJoin("server-1", "")
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = NewUserPresence("", true)
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = NewTyping("", "alice")
	assert.ErrorIs(t, err, ErrMissingField)
}

// ChannelCreate addresses the owning server when one exists; direct and
// group channels fall back to their own recipient list.
func TestChannelCreateScope(t *testing.T) {
	serverChannel, err := NewChannelCreate(domain.Channel{
		ID:          "channel-1",
		ChannelType: domain.ChannelTypeText,
		ServerID:    "server-1",
	})
	require.NoError(t, err)
	assert.Equal(t, ScopeServer, serverChannel.Scope().Kind)
	assert.Equal(t, "server-1", serverChannel.Scope().ServerID)

	dm, err := NewChannelCreate(domain.Channel{
		ID:          "channel-2",
		ChannelType: domain.ChannelTypeDirectMessage,
		Recipients:  []string{"alice", "bob"},
	})
	require.NoError(t, err)
	assert.Equal(t, ScopeChannel, dm.Scope().Kind)
	assert.Equal(t, "channel-2", dm.Scope().ChannelID)
}

// ChannelDelete cannot look the channel up again, so the event itself
// must carry the owning server.
func TestChannelDeleteScope(t *testing.T) {
	ev, err := NewChannelDelete("channel-1", "server-1")
	require.NoError(t, err)
	assert.Equal(t, ScopeServer, ev.Scope().Kind)

	dm, err := NewChannelDelete("channel-2", "")
	require.NoError(t, err)
	assert.Equal(t, ScopeChannel, dm.Scope().Kind)
}

func TestParseInbound(t *testing.T) {
	in, err := ParseInbound([]byte(`{"type":"Authenticate","token":"abc"}`))
	require.NoError(t, err)
	assert.Equal(t, InboundAuthenticate, in.Type)
	assert.Equal(t, "abc", in.Token)

	in, err = ParseInbound([]byte(`{"type":"BeginTyping","channel":"channel-1"}`))
	require.NoError(t, err)
	assert.Equal(t, "channel-1", in.Channel)

	_, err = ParseInbound([]byte(`{"type":"SelfDestruct"}`))
	assert.Error(t, err)

	_, err = ParseInbound([]byte(`not json`))
	assert.Error(t, err)
}

func TestAuthErrorIsOpaque(t *testing.T) {
	frame := NewAuthError()
	assert.Equal(t, KindError, frame.Type)
	assert.Equal(t, "invalid token", frame.Error)
}
