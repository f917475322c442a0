package bridge

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestMethodChannelInvoke(t *testing.T) {
	tb := SetupTestBridge(t.Cleanup)
	tb.OnInvoke = func(channel, method string, args any) (any, error) {
		if channel != "test/methods" {
			t.Errorf("channel = %q", channel)
		}
		if method != "echo" {
			t.Errorf("method = %q", method)
		}
		return args, nil
	}

	ch := NewMethodChannel("test/methods")
	result, err := ch.Invoke("echo", map[string]any{"n": 1})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	m := Map(result)
	if n, _ := Int64(m["n"]); n != 1 {
		t.Errorf("result = %v", result)
	}
}

func TestInvokeWithoutBridge(t *testing.T) {
	t.Cleanup(ResetForTest)
	ResetForTest()

	ch := NewMethodChannel("test/unavailable")
	if _, err := ch.Invoke("m", nil); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Invoke = %v, want ErrUnavailable", err)
	}
}

func TestInvokeNativeError(t *testing.T) {
	tb := SetupTestBridge(t.Cleanup)
	tb.OnInvoke = func(channel, method string, args any) (any, error) {
		return nil, fmt.Errorf("native exploded")
	}

	ch := NewMethodChannel("test/failing")
	if _, err := ch.Invoke("m", nil); err == nil {
		t.Error("Invoke swallowed the native error")
	}
}

func TestHandleMethodCall(t *testing.T) {
	SetupTestBridge(t.Cleanup)

	ch := NewMethodChannel("test/handler")
	ch.SetHandler(func(method string, args any) (any, error) {
		if method == "ping" {
			return "pong", nil
		}
		return nil, ErrMethodNotFound
	})

	args, _ := DefaultCodec.Encode(nil)
	resultData, err := HandleMethodCall("test/handler", "ping", args)
	if err != nil {
		t.Fatalf("HandleMethodCall: %v", err)
	}
	result, _ := DefaultCodec.Decode(resultData)
	if String(result) != "pong" {
		t.Errorf("result = %v", result)
	}

	if _, err := HandleMethodCall("test/handler", "bogus", args); !errors.Is(err, ErrMethodNotFound) {
		t.Errorf("unknown method: %v", err)
	}
	if _, err := HandleMethodCall("test/nonexistent", "ping", args); !errors.Is(err, ErrChannelNotFound) {
		t.Errorf("unknown channel: %v", err)
	}
}

func TestEventChannelListen(t *testing.T) {
	tb := SetupTestBridge(t.Cleanup)
	ch := NewEventChannel("test/events")

	var got []any
	sub := ch.Listen(EventHandler{
		OnEvent: func(data any) { got = append(got, data) },
	})

	if !tb.Streaming("test/events") {
		t.Fatal("stream not started on first Listen")
	}

	if err := tb.Emit("test/events", "one"); err != nil {
		t.Fatal(err)
	}
	if err := tb.Emit("test/events", "two"); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []any{"one", "two"}) {
		t.Errorf("events = %v", got)
	}

	sub.Cancel()
	if tb.Streaming("test/events") {
		t.Error("stream still running after last Cancel")
	}
	_ = tb.Emit("test/events", "three")
	if len(got) != 2 {
		t.Error("event delivered after Cancel")
	}
}

func TestEventChannelMultipleSubscribers(t *testing.T) {
	tb := SetupTestBridge(t.Cleanup)
	ch := NewEventChannel("test/fanout")

	a, b := 0, 0
	subA := ch.Listen(EventHandler{OnEvent: func(any) { a++ }})
	subB := ch.Listen(EventHandler{OnEvent: func(any) { b++ }})
	defer subB.Cancel()

	_ = tb.Emit("test/fanout", 1)
	subA.Cancel()
	if tb.Streaming("test/fanout") == false {
		t.Error("stream stopped while a subscriber remains")
	}
	_ = tb.Emit("test/fanout", 2)

	if a != 1 || b != 2 {
		t.Errorf("deliveries = (%d, %d), want (1, 2)", a, b)
	}
}

func TestEventChannelDone(t *testing.T) {
	SetupTestBridge(t.Cleanup)
	ch := NewEventChannel("test/done")

	doneCalled := false
	sub := ch.Listen(EventHandler{OnDone: func() { doneCalled = true }})

	if err := HandleEventDone("test/done"); err != nil {
		t.Fatal(err)
	}
	if !doneCalled {
		t.Error("OnDone not called")
	}
	if !sub.IsCanceled() {
		t.Error("subscription survives stream end")
	}
}

func TestEventChannelError(t *testing.T) {
	SetupTestBridge(t.Cleanup)
	ch := NewEventChannel("test/errors")

	var got error
	sub := ch.Listen(EventHandler{OnError: func(err error) { got = err }})
	defer sub.Cancel()

	if err := HandleEventError("test/errors", "E42", "boom"); err != nil {
		t.Fatal(err)
	}
	var cerr *ChannelError
	if !errors.As(got, &cerr) {
		t.Fatalf("delivered error = %v", got)
	}
	if cerr.Code != "E42" || cerr.Message != "boom" {
		t.Errorf("ChannelError = %+v", cerr)
	}
}

func TestHandleEventUnregisteredChannel(t *testing.T) {
	SetupTestBridge(t.Cleanup)
	data, _ := DefaultCodec.Encode("x")
	if err := HandleEvent("test/never-registered", data); !errors.Is(err, ErrChannelNotRegistered) {
		t.Errorf("HandleEvent = %v, want ErrChannelNotRegistered", err)
	}
}

// Subscriptions taken before the bridge connects must start their streams
// when it does.
func TestLateBridgeStartsPendingStreams(t *testing.T) {
	t.Cleanup(ResetForTest)
	ResetForTest()

	ch := NewEventChannel("test/pending")
	var got any
	sub := ch.Listen(EventHandler{OnEvent: func(data any) { got = data }})
	defer sub.Cancel()

	tb := &TestBridge{}
	SetNativeBridge(tb)
	if !tb.Streaming("test/pending") {
		t.Fatal("pending stream not started by SetNativeBridge")
	}
	_ = tb.Emit("test/pending", "late")
	if got != "late" {
		t.Errorf("event = %v", got)
	}
}

func TestDispatch(t *testing.T) {
	t.Cleanup(ResetForTest)
	ResetForTest()

	if Dispatch(func() {}) {
		t.Error("Dispatch reported true with no dispatcher")
	}

	ran := false
	RegisterDispatch(func(cb func()) { cb() })
	if !Dispatch(func() { ran = true }) {
		t.Error("Dispatch reported false with a dispatcher")
	}
	if !ran {
		t.Error("callback not run")
	}
}
