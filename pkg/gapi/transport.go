package gapi

// Transport reports which HTTP verbs the underlying transport can send
// natively.
type Transport interface {
	SupportsPatch() bool
	SupportsHead() bool
}

// TransportCapabilities is a static Transport.
type TransportCapabilities struct {
	Patch bool `json:"patch" yaml:"patch"`
	Head  bool `json:"head"  yaml:"head"`
}

// DefaultTransportCapabilities describes net/http, which sends every verb.
func DefaultTransportCapabilities() TransportCapabilities {
	return TransportCapabilities{Patch: true, Head: true}
}

// SupportsPatch reports native PATCH support.
func (c TransportCapabilities) SupportsPatch() bool { return c.Patch }

// SupportsHead reports native HEAD support.
func (c TransportCapabilities) SupportsHead() bool { return c.Head }
