package interaction

// Action is what the handler does with a classified interaction.
type Action int

const (
	// ActionReject answers 400 unsupported interaction type.
	ActionReject Action = iota
	// ActionPong answers the liveness check.
	ActionPong
	// ActionDefer acknowledges a command and publishes it.
	ActionDefer
)

func (a Action) String() string {
	switch a {
	case ActionPong:
		return "pong"
	case ActionDefer:
		return "defer"
	default:
		return "reject"
	}
}

// ResponseType is the "type" of the synchronous interaction response.
type ResponseType int

const (
	ResponsePong                   ResponseType = 1
	ResponseDeferredChannelMessage ResponseType = 5
)

// Response is the JSON body returned for accepted interactions.
type Response struct {
	Type ResponseType `json:"type"`
}

// Decide maps an interaction type to the action taken for it.
func Decide(t Type) Action {
	switch t {
	case TypePing:
		return ActionPong
	case TypeApplicationCommand:
		return ActionDefer
	default:
		return ActionReject
	}
}

// ResponseFor returns the synchronous reply for an accepted action. The
// second result is false for ActionReject.
func ResponseFor(a Action) (Response, bool) {
	switch a {
	case ActionPong:
		return Response{Type: ResponsePong}, true
	case ActionDefer:
		return Response{Type: ResponseDeferredChannelMessage}, true
	default:
		return Response{}, false
	}
}
