package extras

import (
	"github.com/go-drift/keyed/pkg/bridge"
	"github.com/go-drift/keyed/pkg/errors"
)

var (
	intentChannel  = bridge.NewMethodChannel("keyed/intent")
	incomingEvents = bridge.NewEventChannel("keyed/intent/incoming")
)

// Intent is an inter-component message: an action, an optional data URI,
// and a bag of typed extras.
type Intent struct {
	// Action identifies what to do, e.g. "android.intent.action.VIEW".
	Action string

	// Data is the URI the action operates on, if any.
	Data string

	extras *Bundle
}

// NewIntent creates an intent with the given action.
func NewIntent(action string) *Intent {
	return &Intent{Action: action, extras: New()}
}

// Extras returns the intent's extras bundle, creating it on first use.
func (i *Intent) Extras() *Bundle {
	if i.extras == nil {
		i.extras = New()
	}
	return i.extras
}

// Launch hands the intent to the native side for delivery.
func (i *Intent) Launch() error {
	args := map[string]any{
		"action": i.Action,
		"data":   i.Data,
		"extras": i.Extras().MarshalWire(),
	}
	_, err := intentChannel.Invoke("launch", args)
	return err
}

// OnIncoming subscribes to intents delivered to this app. The callback runs
// on the bridge's event delivery thread; post to the UI thread with
// bridge.Dispatch if needed. Malformed deliveries are reported, not
// surfaced.
func OnIncoming(fn func(*Intent)) *bridge.Subscription {
	return incomingEvents.Listen(bridge.EventHandler{
		OnEvent: func(data any) {
			in, err := parseIncoming(data)
			if err != nil {
				errors.Report(&errors.Error{
					Op:      "extras.OnIncoming",
					Kind:    errors.KindParsing,
					Channel: incomingEvents.Name(),
					Err:     err,
				})
				return
			}
			fn(in)
		},
	})
}

func parseIncoming(data any) (*Intent, error) {
	m := bridge.Map(data)
	if m == nil {
		return nil, &errors.InvalidTypeError{Want: "intent event", Got: data}
	}
	in := &Intent{
		Action: bridge.String(m["action"]),
		Data:   bridge.String(m["data"]),
	}
	if wire := bridge.Map(m["extras"]); wire != nil {
		b, err := UnmarshalWire(wire)
		if err != nil {
			return nil, err
		}
		in.extras = b
	} else {
		in.extras = New()
	}
	return in, nil
}
