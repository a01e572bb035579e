package platform

import (
	"fmt"
	"sync"

	"github.com/go-drift/chartview/pkg/errors"
)

// channelRegistry manages all registered bridge channels.
type channelRegistry struct {
	methodChannels map[string]*MethodChannel
	eventChannels  map[string]*EventChannel
	mu             sync.RWMutex
}

var registry = &channelRegistry{
	methodChannels: make(map[string]*MethodChannel),
	eventChannels:  make(map[string]*EventChannel),
}

func (r *channelRegistry) registerMethod(name string, ch *MethodChannel) {
	r.mu.Lock()
	r.methodChannels[name] = ch
	r.mu.Unlock()
}

func (r *channelRegistry) registerEvent(name string, ch *EventChannel) {
	r.mu.Lock()
	r.eventChannels[name] = ch
	r.mu.Unlock()
}

func (r *channelRegistry) getMethodChannel(name string) *MethodChannel {
	r.mu.RLock()
	ch := r.methodChannels[name]
	r.mu.RUnlock()
	return ch
}

func (r *channelRegistry) getEventChannel(name string) *EventChannel {
	r.mu.RLock()
	ch := r.eventChannels[name]
	r.mu.RUnlock()
	return ch
}

func (r *channelRegistry) eventChannelList() []*EventChannel {
	r.mu.RLock()
	channels := make([]*EventChannel, 0, len(r.eventChannels))
	for _, ch := range r.eventChannels {
		channels = append(channels, ch)
	}
	r.mu.RUnlock()
	return channels
}

// HostBridge is the interface to the native host side of the bridge.
// It is installed once by the embedding application during initialization.
type HostBridge interface {
	// InvokeMethod calls a method on the native side.
	InvokeMethod(channel, method string, args []byte) ([]byte, error)

	// StartEventStream tells native to start sending events for a channel.
	StartEventStream(channel string) error

	// StopEventStream tells native to stop sending events for a channel.
	StopEventStream(channel string) error
}

// hostBridge is the installed bridge to native code.
var hostBridge HostBridge

// builtinInits holds functions that re-register built-in event listeners set
// up during package init (the platform view event routing). Each init appends
// its listener setup here so that ResetForTest can replay it after clearing
// subscriptions.
var builtinInits []func()

func registerBuiltinInit(fn func()) {
	builtinInits = append(builtinInits, fn)
}

// SetHostBridge installs the host bridge implementation.
// Called by the embedding application during initialization.
//
// After installing the bridge, SetHostBridge starts event streams for any
// event channels that acquired subscriptions before the bridge was available
// (e.g., during package init), so init-time Listen calls are not silently
// lost. Startup errors are dispatched to subscribers' error handlers.
func SetHostBridge(bridge HostBridge) {
	hostBridge = bridge

	for _, ch := range registry.eventChannelList() {
		ch.mu.Lock()
		shouldStart := len(ch.subscriptions) > 0 && !ch.started
		if shouldStart {
			ch.started = true
		}
		ch.mu.Unlock()

		if shouldStart {
			if err := startEventStream(ch.name); err != nil {
				ch.mu.Lock()
				ch.started = false
				ch.mu.Unlock()
				ch.dispatchError(err)
			}
		}
	}
}

// invokeHost calls a method on the native side.
func invokeHost(channel, method string, args any) (any, error) {
	if hostBridge == nil {
		return nil, ErrBridgeUnavailable
	}

	argsData, err := DefaultCodec.Encode(args)
	if err != nil {
		return nil, err
	}

	resultData, err := hostBridge.InvokeMethod(channel, method, argsData)
	if err != nil {
		return nil, err
	}

	return DefaultCodec.Decode(resultData)
}

// startEventStream notifies native to start sending events.
func startEventStream(channel string) error {
	if hostBridge == nil {
		errors.Report(&errors.BridgeError{
			Op:      "platform.startEventStream",
			Kind:    errors.KindBridge,
			Channel: channel,
			Err:     ErrBridgeUnavailable,
		})
		return ErrBridgeUnavailable
	}
	if err := hostBridge.StartEventStream(channel); err != nil {
		errors.Report(&errors.BridgeError{
			Op:      "platform.startEventStream",
			Kind:    errors.KindBridge,
			Channel: channel,
			Err:     err,
		})
		return err
	}
	return nil
}

// stopEventStream notifies native to stop sending events.
func stopEventStream(channel string) error {
	if hostBridge == nil {
		errors.Report(&errors.BridgeError{
			Op:      "platform.stopEventStream",
			Kind:    errors.KindBridge,
			Channel: channel,
			Err:     ErrBridgeUnavailable,
		})
		return ErrBridgeUnavailable
	}
	if err := hostBridge.StopEventStream(channel); err != nil {
		errors.Report(&errors.BridgeError{
			Op:      "platform.stopEventStream",
			Kind:    errors.KindBridge,
			Channel: channel,
			Err:     err,
		})
		return err
	}
	return nil
}

// HandleMethodCall is called from the bridge when native invokes a Go method.
func HandleMethodCall(channel, method string, argsData []byte) ([]byte, error) {
	ch := registry.getMethodChannel(channel)
	if ch == nil {
		return nil, ErrChannelNotFound
	}

	args, err := DefaultCodec.Decode(argsData)
	if err != nil {
		return nil, err
	}

	result, err := ch.handleCall(method, args)
	if err != nil {
		return nil, err
	}

	return DefaultCodec.Encode(result)
}

// ErrChannelNotRegistered is returned when an event is received for an unregistered channel.
var ErrChannelNotRegistered = fmt.Errorf("event channel not registered")

// HandleEvent is called from the bridge when native sends an event.
func HandleEvent(channel string, eventData []byte) error {
	ch := registry.getEventChannel(channel)
	if ch == nil {
		err := fmt.Errorf("%w: %s", ErrChannelNotRegistered, channel)
		errors.Report(&errors.BridgeError{
			Op:      "platform.HandleEvent",
			Kind:    errors.KindBridge,
			Channel: channel,
			Err:     err,
		})
		return err
	}

	data, err := DefaultCodec.Decode(eventData)
	if err != nil {
		ch.dispatchError(err)
		return err
	}

	ch.dispatchEvent(data)
	return nil
}

// HandleEventError is called from the bridge when an event stream errors.
func HandleEventError(channel string, code, message string) error {
	ch := registry.getEventChannel(channel)
	if ch == nil {
		err := fmt.Errorf("%w: %s", ErrChannelNotRegistered, channel)
		errors.Report(&errors.BridgeError{
			Op:      "platform.HandleEventError",
			Kind:    errors.KindBridge,
			Channel: channel,
			Err:     err,
		})
		return err
	}

	ch.dispatchError(NewChannelError(code, message))
	return nil
}

// HandleEventDone is called from the bridge when an event stream ends.
func HandleEventDone(channel string) error {
	ch := registry.getEventChannel(channel)
	if ch == nil {
		err := fmt.Errorf("%w: %s", ErrChannelNotRegistered, channel)
		errors.Report(&errors.BridgeError{
			Op:      "platform.HandleEventDone",
			Kind:    errors.KindBridge,
			Channel: channel,
			Err:     err,
		})
		return err
	}

	ch.dispatchDone()
	return nil
}

// ResetForTest resets all global bridge state for test isolation.
// It clears the host bridge and dispatch function, removes all event
// subscriptions, resets the platform view registry, and re-registers the
// built-in init-time listeners so the package behaves as if freshly
// initialized. This should only be called from tests.
func ResetForTest() {
	hostBridge = nil

	for _, ch := range registry.eventChannelList() {
		ch.mu.Lock()
		ch.subscriptions = ch.subscriptions[:0]
		ch.started = false
		ch.mu.Unlock()
	}

	dispatchMu.Lock()
	dispatchFunc = nil
	dispatchMu.Unlock()

	if platformViewRegistry != nil {
		platformViewRegistry.mu.Lock()
		platformViewRegistry.views = make(map[int64]PlatformView)
		platformViewRegistry.mu.Unlock()
		platformViewRegistry.nextID.Store(0)
	}

	for _, fn := range builtinInits {
		fn()
	}
}
