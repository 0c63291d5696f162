package models

// Invocation sources sent by the conversational front-end.
const (
	InvocationDialogCodeHook      = "DialogCodeHook"
	InvocationFulfillmentCodeHook = "FulfillmentCodeHook"
)

// Dialog action types returned to the front-end.
const (
	ActionElicitIntent = "ElicitIntent"
	ActionElicitSlot   = "ElicitSlot"
	ActionDelegate     = "Delegate"
	ActionClose        = "Close"
)

const (
	FulfillmentStateFulfilled = "Fulfilled"
	FulfillmentStateFailed    = "Failed"

	ContentTypePlainText = "PlainText"
)

// DialogEvent is one conversational turn as delivered by the front-end.
type DialogEvent struct {
	CurrentIntent     CurrentIntent     `json:"currentIntent"`
	InvocationSource  string            `json:"invocationSource"`
	SessionAttributes map[string]string `json:"sessionAttributes"`
	UserID            string            `json:"userId,omitempty"`
	InputTranscript   string            `json:"inputTranscript,omitempty"`
}

type CurrentIntent struct {
	Name  string             `json:"name"`
	Slots map[string]*string `json:"slots"`
}

// DialogResponse is the directive handed back to the front-end.
type DialogResponse struct {
	SessionAttributes map[string]string `json:"sessionAttributes,omitempty"`
	DialogAction      DialogAction      `json:"dialogAction"`
}

type DialogAction struct {
	Type             string             `json:"type"`
	FulfillmentState string             `json:"fulfillmentState,omitempty"`
	Message          *Message           `json:"message,omitempty"`
	IntentName       string             `json:"intentName,omitempty"`
	Slots            map[string]*string `json:"slots,omitempty"`
	SlotToElicit     string             `json:"slotToElicit,omitempty"`
}

type Message struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// PlainText builds a plain-text message.
func PlainText(content string) *Message {
	return &Message{ContentType: ContentTypePlainText, Content: content}
}
