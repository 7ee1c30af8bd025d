package notify

import (
	"fmt"
	"strings"
)

// Channel is the mechanism a message is delivered through. The set is closed.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

type channelSpec struct {
	label string
}

var channelTable = map[Channel]channelSpec{
	ChannelEmail:    {label: "EMAIL"},
	ChannelSMS:      {label: "SMS"},
	ChannelWhatsApp: {label: "WHATSAPP"},
}

// Channels lists every channel in menu order.
func Channels() []Channel {
	return []Channel{ChannelEmail, ChannelSMS, ChannelWhatsApp}
}

func (c Channel) Valid() bool {
	_, ok := channelTable[c]
	return ok
}

// Label is the prefix printed in front of every delivered message.
func (c Channel) Label() string {
	if spec, ok := channelTable[c]; ok {
		return spec.label
	}
	return strings.ToUpper(string(c))
}

func (c Channel) String() string {
	return string(c)
}

// ParseChannel accepts a channel name case-insensitively. "chat" is an alias for whatsapp.
func ParseChannel(s string) (Channel, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "chat" {
		name = string(ChannelWhatsApp)
	}
	ch := Channel(name)
	if !ch.Valid() {
		return "", fmt.Errorf("unknown notification channel %q", s)
	}
	return ch, nil
}
