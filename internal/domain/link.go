package domain

import "fmt"

// Link is an undirected connection between two interfaces on two devices.
// Bandwidth is in Mbps; zero means unspecified. Bandwidth is reported by the
// connectivity engine but never used as a path cost.
type Link struct {
	A         Endpoint
	B         Endpoint
	Bandwidth float64
}

// Normalize orders the endpoints so that A sorts before B, giving every link
// a canonical representation regardless of connect direction.
func (l *Link) Normalize() {
	if l.A.Device > l.B.Device ||
		(l.A.Device == l.B.Device && l.A.Interface > l.B.Interface) {
		l.A, l.B = l.B, l.A
	}
}

// Involves reports whether the link touches the named device.
func (l *Link) Involves(device string) bool {
	return l.A.Device == device || l.B.Device == device
}

// HasEndpoint reports whether one of the link's endpoints is exactly the
// given (device, interface) pair.
func (l *Link) HasEndpoint(device, iface string) bool {
	return (l.A.Device == device && l.A.Interface == iface) ||
		(l.B.Device == device && l.B.Interface == iface)
}

// OtherEnd returns the endpoint opposite to the given device.
func (l *Link) OtherEnd(device string) Endpoint {
	if l.A.Device == device {
		return l.B
	}
	return l.A
}

func (l *Link) String() string {
	if l.Bandwidth > 0 {
		return fmt.Sprintf("%s <-> %s (%g Mbps)", l.A, l.B, l.Bandwidth)
	}
	return fmt.Sprintf("%s <-> %s", l.A, l.B)
}
