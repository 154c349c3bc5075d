package responses

import (
	"github.com/foomo/sitegen/content"
)

// StreamType kind of a generation stream message
type StreamType string

const (
	StreamTypeStatus StreamType = "status"
	StreamTypeSite   StreamType = "site"
	StreamTypeError  StreamType = "error"
)

// StreamMessage a single message of the generation websocket
type StreamMessage struct {
	Type    StreamType            `json:"type"`
	Message string                `json:"message,omitempty"`
	Site    *content.SiteInstance `json:"site,omitempty"`
	Error   string                `json:"error,omitempty"`
}

func NewStatus(message string) StreamMessage {
	return StreamMessage{Type: StreamTypeStatus, Message: message}
}

func NewSite(site *content.SiteInstance) StreamMessage {
	return StreamMessage{Type: StreamTypeSite, Site: site}
}

func NewStreamError(err string) StreamMessage {
	return StreamMessage{Type: StreamTypeError, Error: err}
}
