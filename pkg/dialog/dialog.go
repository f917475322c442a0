// Package dialog builds and shows native alert dialogs.
//
// A Builder accumulates deferred configuration steps; nothing touches the
// native side until Show. Steps are applied to a fresh dialog description
// in a fixed phase order (content, then title, then buttons, then
// auxiliary flags) regardless of the order the builder methods were
// called in. Within a phase, call order is preserved.
package dialog

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/go-drift/keyed/pkg/bridge"
	"github.com/go-drift/keyed/pkg/errors"
)

var (
	channel = bridge.NewMethodChannel("keyed/dialog")
	results = bridge.NewEventChannel("keyed/dialog/result")
)

// Button identifiers reported in a Result.
const (
	ButtonPositive = "positive"
	ButtonNegative = "negative"
	ButtonNeutral  = "neutral"
)

// Result reports how a dialog was dismissed.
type Result struct {
	// Button is the identifier of the pressed button, empty when the
	// dialog was cancelled.
	Button string

	// Cancelled reports dismissal without a button press (back press or
	// outside tap).
	Cancelled bool
}

type phase int

const (
	phaseContent phase = iota
	phaseTitle
	phaseButtons
	phaseAux
)

type step struct {
	phase phase
	apply func(*description) error
}

type buttonSpec struct {
	Which string `json:"which"`
	Label string `json:"label"`
}

// description is the payload under construction during Show.
type description struct {
	fields    map[string]any
	buttons   []buttonSpec
	callbacks map[string]func()
	applied   []string
}

// Builder accumulates dialog configuration for a single Show.
type Builder struct {
	steps []step
}

// New returns an empty dialog builder.
func New() *Builder {
	return &Builder{}
}

func (b *Builder) add(p phase, name string, apply func(*description) error) *Builder {
	b.steps = append(b.steps, step{phase: p, apply: func(d *description) error {
		d.applied = append(d.applied, name)
		return apply(d)
	}})
	return b
}

// Message sets the dialog's body text.
func (b *Builder) Message(text string) *Builder {
	return b.add(phaseContent, "message", func(d *description) error {
		d.fields["message"] = text
		return nil
	})
}

// Items configures a list dialog. The result's Button carries the selected
// index as "item:<n>".
func (b *Builder) Items(items []string) *Builder {
	return b.add(phaseContent, "items", func(d *description) error {
		d.fields["items"] = items
		return nil
	})
}

// Title sets the dialog title.
func (b *Builder) Title(text string) *Builder {
	return b.add(phaseTitle, "title", func(d *description) error {
		d.fields["title"] = text
		return nil
	})
}

// PositiveButton adds the affirmative button. fn may be nil; when set it
// runs on the UI thread after the button is pressed.
func (b *Builder) PositiveButton(label string, fn func()) *Builder {
	return b.button(ButtonPositive, label, fn)
}

// NegativeButton adds the dismissive button.
func (b *Builder) NegativeButton(label string, fn func()) *Builder {
	return b.button(ButtonNegative, label, fn)
}

// NeutralButton adds the third, neutral button.
func (b *Builder) NeutralButton(label string, fn func()) *Builder {
	return b.button(ButtonNeutral, label, fn)
}

func (b *Builder) button(which, label string, fn func()) *Builder {
	return b.add(phaseButtons, "button:"+which, func(d *description) error {
		d.buttons = append(d.buttons, buttonSpec{Which: which, Label: label})
		if fn != nil {
			d.callbacks[which] = fn
		}
		return nil
	})
}

// Cancelable controls whether back press or outside tap dismisses the
// dialog.
func (b *Builder) Cancelable(cancelable bool) *Builder {
	return b.add(phaseAux, "cancelable", func(d *description) error {
		d.fields["cancelable"] = cancelable
		return nil
	})
}

// build applies the accumulated steps in phase order to a fresh
// description.
func (b *Builder) build() (*description, error) {
	steps := make([]step, len(b.steps))
	copy(steps, b.steps)
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].phase < steps[j].phase
	})

	d := &description{
		fields:    make(map[string]any),
		callbacks: make(map[string]func()),
	}
	for _, s := range steps {
		if err := s.apply(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

var nextRequestID atomic.Int64

// Show displays the dialog and blocks until it is dismissed or ctx is
// canceled. Button callbacks run on the UI thread (when a dispatcher is
// registered) before Show returns.
func (b *Builder) Show(ctx context.Context) (Result, error) {
	d, err := b.build()
	if err != nil {
		return Result{}, err
	}

	requestID := fmt.Sprintf("dialog-%d", nextRequestID.Add(1))

	resultChan := make(chan Result, 1)
	errChan := make(chan error, 1)
	sub := results.Listen(bridge.EventHandler{
		OnEvent: func(data any) {
			m := bridge.Map(data)
			if m == nil {
				errors.Report(&errors.Error{
					Op:      "dialog.result",
					Kind:    errors.KindParsing,
					Channel: results.Name(),
					Err:     &errors.InvalidTypeError{Want: "dialog result", Got: data},
				})
				return
			}
			if bridge.String(m["requestId"]) != requestID {
				return
			}
			select {
			case resultChan <- Result{
				Button:    bridge.String(m["button"]),
				Cancelled: bridge.Bool(m["cancelled"]),
			}:
			default:
			}
		},
		OnError: func(err error) {
			select {
			case errChan <- err:
			default:
			}
		},
	})
	defer sub.Cancel()

	args := map[string]any{
		"requestId": requestID,
		"buttons":   d.buttons,
	}
	for k, v := range d.fields {
		args[k] = v
	}

	if _, err := channel.Invoke("show", args); err != nil {
		return Result{}, err
	}

	select {
	case result := <-resultChan:
		if fn, ok := d.callbacks[result.Button]; ok {
			if !bridge.Dispatch(fn) {
				fn()
			}
		}
		return result, nil
	case err := <-errChan:
		return Result{}, err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
