package bridge

import "sync"

// Invocation records one method call that reached a TestBridge.
type Invocation struct {
	Channel string
	Method  string
	Args    any
}

// TestBridge is a scriptable NativeBridge for tests. It records every
// invocation and answers through OnInvoke; a nil OnInvoke answers every
// call with a nil result.
type TestBridge struct {
	// OnInvoke produces the native response for a method call. Args arrive
	// already decoded.
	OnInvoke func(channel, method string, args any) (any, error)

	mu      sync.Mutex
	calls   []Invocation
	streams map[string]bool
}

func (b *TestBridge) InvokeMethod(channel, method string, args []byte) ([]byte, error) {
	decoded, err := DefaultCodec.Decode(args)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.calls = append(b.calls, Invocation{Channel: channel, Method: method, Args: decoded})
	b.mu.Unlock()

	if b.OnInvoke == nil {
		return DefaultCodec.Encode(nil)
	}
	result, err := b.OnInvoke(channel, method, decoded)
	if err != nil {
		return nil, err
	}
	return DefaultCodec.Encode(result)
}

func (b *TestBridge) StartEventStream(channel string) error {
	b.mu.Lock()
	if b.streams == nil {
		b.streams = make(map[string]bool)
	}
	b.streams[channel] = true
	b.mu.Unlock()
	return nil
}

func (b *TestBridge) StopEventStream(channel string) error {
	b.mu.Lock()
	delete(b.streams, channel)
	b.mu.Unlock()
	return nil
}

// Calls returns a copy of the recorded invocations, in order.
func (b *TestBridge) Calls() []Invocation {
	b.mu.Lock()
	defer b.mu.Unlock()
	calls := make([]Invocation, len(b.calls))
	copy(calls, b.calls)
	return calls
}

// Streaming reports whether an event stream has been started for the channel.
func (b *TestBridge) Streaming(channel string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.streams[channel]
}

// Emit encodes data and delivers it as a native event on the channel.
func (b *TestBridge) Emit(channel string, data any) error {
	encoded, err := DefaultCodec.Encode(data)
	if err != nil {
		return err
	}
	return HandleEvent(channel, encoded)
}

// SetupTestBridge installs a TestBridge and a synchronous dispatch function
// for testing. The cleanup function should be testing.T.Cleanup or
// equivalent; it registers a teardown that calls ResetForTest.
//
//	tb := bridge.SetupTestBridge(t.Cleanup)
func SetupTestBridge(cleanup func(func())) *TestBridge {
	tb := &TestBridge{}
	SetNativeBridge(tb)
	RegisterDispatch(func(cb func()) { cb() })
	cleanup(ResetForTest)
	return tb
}

// ResetForTest resets all global bridge state for test isolation: the native
// bridge, the dispatch function, and every event channel's subscriptions.
// This should only be called from tests.
func ResetForTest() {
	nativeBridge = nil

	for _, ch := range registry.eventChannelList() {
		ch.mu.Lock()
		ch.subscriptions = ch.subscriptions[:0]
		ch.started = false
		ch.mu.Unlock()
	}

	dispatchMu.Lock()
	dispatchFunc = nil
	dispatchMu.Unlock()
}
