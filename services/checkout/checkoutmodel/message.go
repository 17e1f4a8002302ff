package checkoutmodel

type MessageType string

const (
	MessageTypeError   MessageType = "error"
	MessageTypeWarning MessageType = "warning"
	MessageTypeInfo    MessageType = "info"
)

type Severity string

const (
	SeverityRecoverable         Severity = "recoverable"
	SeverityRequiresBuyerInput  Severity = "requires_buyer_input"
	SeverityRequiresBuyerReview Severity = "requires_buyer_review"
)

// Message is tagged by Type; Severity is only set on errors.
// Use the constructors to keep that invariant.
type Message struct {
	Type     MessageType `json:"type"`
	Code     string      `json:"code"`
	Path     string      `json:"path,omitempty"`
	Content  string      `json:"content"`
	Severity Severity    `json:"severity,omitempty"`
}

func NewError(severity Severity, code string, path string, content string) Message {
	return Message{
		Type:     MessageTypeError,
		Code:     code,
		Path:     path,
		Content:  content,
		Severity: severity,
	}
}

func NewWarning(code string, path string, content string) Message {
	return Message{
		Type:    MessageTypeWarning,
		Code:    code,
		Path:    path,
		Content: content,
	}
}

func NewInfo(code string, path string, content string) Message {
	return Message{
		Type:    MessageTypeInfo,
		Code:    code,
		Path:    path,
		Content: content,
	}
}

// ErrorSeverity reports the severity when the message is an error.
func (m Message) ErrorSeverity() (Severity, bool) {
	switch m.Type {
	case MessageTypeError:
		return m.Severity, true
	case MessageTypeWarning, MessageTypeInfo:
		return "", false
	default:
		return "", false
	}
}
