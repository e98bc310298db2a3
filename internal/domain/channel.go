package domain

import "context"

type ChannelType string

const (
	ChannelTypeSavedMessages ChannelType = "SavedMessages"
	ChannelTypeDirectMessage ChannelType = "DirectMessage"
	ChannelTypeGroup         ChannelType = "Group"
	ChannelTypeText          ChannelType = "TextChannel"
	ChannelTypeVoice         ChannelType = "VoiceChannel"
)

type Channel struct {
	ID          string      `json:"_id" bson:"_id"`
	ChannelType ChannelType `json:"channelType" bson:"channelType"`
	Name        string      `json:"name,omitempty" bson:"name,omitempty"`
	Description string      `json:"description,omitempty" bson:"description,omitempty"`
	Recipients  []string    `json:"recipients,omitempty" bson:"recipients,omitempty"`
	ServerID    string      `json:"server,omitempty" bson:"server,omitempty"`
}

// Direct reports whether fanout should address the channel's own
// recipient list instead of the owning server's member list.
func (c *Channel) Direct() bool {
	switch c.ChannelType {
	case ChannelTypeDirectMessage, ChannelTypeGroup, ChannelTypeSavedMessages:
		return true
	}
	return false
}

type ChannelRepository interface {
	GetByID(ctx context.Context, id string) (*Channel, error)
	// GetVisible returns the channels a user can see: direct and group
	// channels listing the user as a recipient, plus every channel of the
	// given servers.
	GetVisible(ctx context.Context, userID string, serverIDs []string) ([]Channel, error)
}
