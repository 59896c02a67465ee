package domain

// InputType tags the variant of an Input.
type InputType string

const (
	InputText       InputType = "text"
	InputCommand    InputType = "command"
	InputImage      InputType = "image"
	InputDocument   InputType = "document"
	InputLocation   InputType = "location"
	InputPostback   InputType = "postback"
	InputJoinedChat InputType = "joined_chat"
	InputLeftChat   InputType = "left_chat"
	InputError      InputType = "error"
	InputWit        InputType = "wit"
	InputPlacebo    InputType = "placebo"
)

// Input is the closed set of payloads a message or manual trigger can carry.
// Use a type switch on the concrete types below.
type Input interface {
	InputType() InputType
	isInput()
}

// TextInput is a plain text message.
type TextInput struct {
	Text string
}

// CommandInput is a slash command such as "/start arg1 arg2".
type CommandInput struct {
	Command string
	Args    []string
}

// ImageInput is an image attachment.
type ImageInput struct {
	URL    string
	FileID string
}

// DocumentInput is a generic file attachment.
type DocumentInput struct {
	URL      string
	FileID   string
	FileName string
}

// LocationInput is a shared location.
type LocationInput struct {
	Latitude  float64
	Longitude float64
}

// PostbackInput is a button or quick reply payload.
type PostbackInput struct {
	Payload string
}

// JoinedChatInput signals that the bot or a user joined a group chat.
type JoinedChatInput struct{}

// LeftChatInput signals that the bot or a user left a group chat.
type LeftChatInput struct{}

// ErrorInput is routed to error leaves when another leaf failed.
type ErrorInput struct {
	Err         error
	ErroredLeaf string
}

// WitInput carries the NLU interpretation of a text that no leaf handled.
type WitInput struct {
	Entities          map[string][]WitEntity
	Intents           []WitIntent
	Traits            WitTraits
	HighestConfidence *WitConfidence
}

// PlaceboInput does nothing; it exists to poke leaves without user content.
type PlaceboInput struct{}

func (TextInput) InputType() InputType       { return InputText }
func (CommandInput) InputType() InputType    { return InputCommand }
func (ImageInput) InputType() InputType      { return InputImage }
func (DocumentInput) InputType() InputType   { return InputDocument }
func (LocationInput) InputType() InputType   { return InputLocation }
func (PostbackInput) InputType() InputType   { return InputPostback }
func (JoinedChatInput) InputType() InputType { return InputJoinedChat }
func (LeftChatInput) InputType() InputType   { return InputLeftChat }
func (ErrorInput) InputType() InputType      { return InputError }
func (WitInput) InputType() InputType        { return InputWit }
func (PlaceboInput) InputType() InputType    { return InputPlacebo }

func (TextInput) isInput()       {}
func (CommandInput) isInput()    {}
func (ImageInput) isInput()      {}
func (DocumentInput) isInput()   {}
func (LocationInput) isInput()   {}
func (PostbackInput) isInput()   {}
func (JoinedChatInput) isInput() {}
func (LeftChatInput) isInput()   {}
func (ErrorInput) isInput()      {}
func (WitInput) isInput()        {}
func (PlaceboInput) isInput()    {}
