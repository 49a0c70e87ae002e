package domain

// EventType discriminates inbound webhook events.
type EventType string

const (
	EventTypeMessage  EventType = "message"
	EventTypeFollow   EventType = "follow"
	EventTypeUnfollow EventType = "unfollow"
	EventTypePostback EventType = "postback"
)

// MessageType discriminates the payload of a message event.
type MessageType string

const (
	MessageTypeText     MessageType = "text"
	MessageTypeSticker  MessageType = "sticker"
	MessageTypeImage    MessageType = "image"
	MessageTypeVideo    MessageType = "video"
	MessageTypeAudio    MessageType = "audio"
	MessageTypeFile     MessageType = "file"
	MessageTypeLocation MessageType = "location"
)

// Event is an inbound platform event. UserID is empty for group and room sources
// that do not carry a user identity.
type Event struct {
	Type       EventType
	UserID     string
	ReplyToken string
	Message    *IncomingMessage
}

// IncomingMessage is the message part of a message event.
type IncomingMessage struct {
	Type MessageType
	Text string
}

// Message is an outbound reply element. A reply is an ordered bundle of messages.
type Message interface {
	isMessage()
}

// TextMessage is a plain text reply.
type TextMessage struct {
	Text string
}

// StickerMessage references a platform sticker by package and sticker id.
type StickerMessage struct {
	PackageID string
	StickerID string
}

// ButtonsMessage is a template with an optional image and up to four actions.
type ButtonsMessage struct {
	AltText  string
	Title    string
	Text     string
	ImageURL string
	Actions  []Action
}

// Action is a button that sends Text back as a user message when tapped.
type Action struct {
	Label string
	Text  string
}

func (TextMessage) isMessage()    {}
func (StickerMessage) isMessage() {}
func (ButtonsMessage) isMessage() {}
