package orion

import (
	"github.com/opd-ai/orion/address"
	"github.com/opd-ai/orion/limits"
	"github.com/opd-ai/orion/logging"
)

// TimeoutPolicy selects how ReceiveForSelf treats a receive timeout.
type TimeoutPolicy uint8

const (
	// ReturnOnTimeout makes ReceiveForSelf return a nil packet when the radio
	// times out before a matching packet arrives.
	ReturnOnTimeout TimeoutPolicy = iota
	// IgnoreTimeout makes ReceiveForSelf keep listening through timeouts until
	// a matching packet arrives or the context is done.
	IgnoreTimeout
)

// String returns the policy name used in configuration files.
func (p TimeoutPolicy) String() string {
	switch p {
	case ReturnOnTimeout:
		return "return"
	case IgnoreTimeout:
		return "ignore"
	default:
		return "unknown"
	}
}

// Options configures an Endpoint.
type Options struct {
	// Address and Port identify the endpoint as a packet source and filter
	// destination.
	Address address.Address
	Port    address.Port

	// MaxPayload bounds outgoing payloads; longer data is truncated.
	MaxPayload int

	// TimeoutPolicy controls ReceiveForSelf on radio timeouts.
	TimeoutPolicy TimeoutPolicy

	// AcceptBroadcast lets ReceiveForSelf also return packets sent to the
	// broadcast address on the endpoint's port.
	AcceptBroadcast bool

	// Logger receives endpoint and link messages. Nil discards them.
	Logger logging.Logger
}

// NewOptions creates default Options: unspecified address, port 0, extended
// payload profile, ReturnOnTimeout, no broadcast acceptance, no logging.
func NewOptions() *Options {
	return &Options{
		Address:       address.Unspecified,
		Port:          0,
		MaxPayload:    limits.MaxPayloadExtended,
		TimeoutPolicy: ReturnOnTimeout,
	}
}
