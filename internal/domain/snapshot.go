package domain

import (
	"fmt"
	"net/netip"

	"netsim/internal/ipam"
)

// Snapshot is the read-only exchange shape shared with the persistence,
// rendering, and display collaborators.
type Snapshot struct {
	Name    string           `json:"name" yaml:"name"`
	Devices []DeviceSnapshot `json:"devices" yaml:"devices"`
	Links   []LinkSnapshot   `json:"links" yaml:"links"`
}

// DeviceSnapshot describes one device and its interfaces.
type DeviceSnapshot struct {
	Name       string              `json:"name" yaml:"name"`
	Type       string              `json:"type" yaml:"type"`
	Interfaces []InterfaceSnapshot `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
}

// InterfaceSnapshot describes one interface; IP is "addr/prefix" or empty.
type InterfaceSnapshot struct {
	Name string `json:"name" yaml:"name"`
	IP   string `json:"ip,omitempty" yaml:"ip,omitempty"`
}

// LinkSnapshot describes one link between two endpoints.
type LinkSnapshot struct {
	A         Endpoint `json:"a" yaml:"a"`
	B         Endpoint `json:"b" yaml:"b"`
	Bandwidth float64  `json:"bandwidth,omitempty" yaml:"bandwidth,omitempty"`
}

// Snapshot produces a deterministic snapshot of the topology: devices,
// interfaces, and links all in sorted order.
func (t *Topology) Snapshot() *Snapshot {
	snap := &Snapshot{
		Name:    t.Name,
		Devices: make([]DeviceSnapshot, 0, len(t.devices)),
		Links:   make([]LinkSnapshot, 0, len(t.links)),
	}

	for _, d := range t.Devices() {
		ds := DeviceSnapshot{Name: d.Name, Type: string(d.Type)}
		for _, ifName := range d.InterfaceNames() {
			is := InterfaceSnapshot{Name: ifName}
			if i := d.Interface(ifName); i.HasAddr() {
				is.IP = i.Addr.String()
			}
			ds.Interfaces = append(ds.Interfaces, is)
		}
		snap.Devices = append(snap.Devices, ds)
	}

	for _, l := range t.Links() {
		snap.Links = append(snap.Links, LinkSnapshot{A: l.A, B: l.B, Bandwidth: l.Bandwidth})
	}
	return snap
}

// FromSnapshot reconstructs a topology from a snapshot: devices first, then
// links, so every connect precondition holds during the rebuild. Addresses
// recorded in the snapshot are reserved in the pool before any link is
// connected, keeping automatic assignment collision-free. A nil pool selects
// the default pool.
//
// Malformed input fails with ErrInvalidFormat and never mutates any live
// topology; callers load into the fresh topology returned here and swap on
// success.
func FromSnapshot(snap *Snapshot, pool *ipam.Pool) (*Topology, error) {
	if snap == nil {
		return nil, fmt.Errorf("%w: nil snapshot", ErrInvalidFormat)
	}
	if pool == nil {
		pool = ipam.Default()
	}
	t := NewWithPool(snap.Name, pool)

	for _, ds := range snap.Devices {
		deviceType, err := ParseDeviceType(ds.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: device %q: %v", ErrInvalidFormat, ds.Name, err)
		}
		d := NewDevice(ds.Name, deviceType)
		for _, is := range ds.Interfaces {
			if is.Name == "" {
				return nil, fmt.Errorf("%w: device %q has an unnamed interface", ErrInvalidFormat, ds.Name)
			}
			i := d.AddInterface(is.Name)
			if is.IP == "" {
				continue
			}
			if !deviceType.AssignsAddresses() {
				return nil, fmt.Errorf("%w: %s interface %s:%s cannot carry an address",
					ErrInvalidFormat, deviceType, ds.Name, is.Name)
			}
			addr, err := netip.ParsePrefix(is.IP)
			if err != nil || !addr.Addr().Is4() {
				return nil, fmt.Errorf("%w: interface %s:%s has invalid address %q",
					ErrInvalidFormat, ds.Name, is.Name, is.IP)
			}
			i.Addr = addr
			pool.Reserve(addr.Addr())
		}
		if err := t.AddDevice(d); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	}

	for _, ls := range snap.Links {
		if err := t.Connect(ls.A.Device, ls.A.Interface, ls.B.Device, ls.B.Interface, ls.Bandwidth); err != nil {
			return nil, fmt.Errorf("%w: link %s <-> %s: %v", ErrInvalidFormat, ls.A, ls.B, err)
		}
	}
	return t, nil
}
