package domain

import "net/netip"

// Endpoint identifies one end of a link as a (device, interface) name pair.
// Interfaces reference their peer through an Endpoint resolved against the
// owning Topology instead of a direct pointer, which keeps the model free of
// reference cycles and trivially serializable.
type Endpoint struct {
	Device    string `json:"device" yaml:"device"`
	Interface string `json:"interface" yaml:"interface"`
}

func (e Endpoint) String() string {
	return e.Device + ":" + e.Interface
}

// Interface is a named connection point on a device.
type Interface struct {
	Name      string
	Addr      netip.Prefix // zero value means unassigned
	Connected bool
	Peer      *Endpoint // set only while linked, symmetric with the remote side
}

// HasAddr reports whether the interface has an address assigned.
func (i *Interface) HasAddr() bool {
	return i.Addr.IsValid()
}
