package platform

import "errors"

// Standard errors for bridge operations.
var (
	// ErrChannelNotFound indicates the requested bridge channel does not exist.
	ErrChannelNotFound = errors.New("bridge channel not found")

	// ErrMethodNotFound indicates the method is not implemented on the native side.
	ErrMethodNotFound = errors.New("method not implemented")

	// ErrInvalidArguments indicates the arguments passed to the method were invalid.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrBridgeUnavailable indicates no host bridge has been installed, so
	// native code cannot be reached.
	ErrBridgeUnavailable = errors.New("host bridge unavailable")

	// ErrViewTypeNotFound indicates the platform view type is not registered.
	ErrViewTypeNotFound = errors.New("platform view type not registered")

	// ErrDisposed is returned when operating on a disposed surface.
	ErrDisposed = errors.New("surface disposed")

	// ErrClosed is returned when operating on a closed channel or stream.
	ErrClosed = errors.New("platform: channel closed")
)

// Canonical load error codes shared by the platform surfaces.
// Native implementations map platform-specific errors to these codes
// so that Go callbacks receive consistent values across platforms.
const (
	// ErrCodeNetworkError indicates a network-level failure such as
	// DNS resolution, connectivity, or timeout errors.
	ErrCodeNetworkError = "network_error"

	// ErrCodeSSLError indicates a TLS/certificate failure such as
	// untrusted certificates or expired certificates.
	ErrCodeSSLError = "ssl_error"

	// ErrCodeLoadFailed indicates a general page load failure that
	// does not fit a more specific category.
	ErrCodeLoadFailed = "load_failed"
)
