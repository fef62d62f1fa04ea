package domain

import (
	"fmt"
	"sort"
	"strings"
)

// DeviceType represents the kind of network device.
type DeviceType string

const (
	DeviceRouter DeviceType = "router"
	DeviceSwitch DeviceType = "switch"
	DeviceHost   DeviceType = "host"
)

// capability describes the per-type behavioral differences. Switches operate
// at the link layer only and never receive addresses.
type capability struct {
	AssignsAddresses  bool
	DynamicInterfaces bool
}

var capabilities = map[DeviceType]capability{
	DeviceRouter: {AssignsAddresses: true, DynamicInterfaces: true},
	DeviceSwitch: {AssignsAddresses: false, DynamicInterfaces: true},
	DeviceHost:   {AssignsAddresses: true, DynamicInterfaces: true},
}

// Valid reports whether t is a known device type.
func (t DeviceType) Valid() bool {
	_, ok := capabilities[t]
	return ok
}

// AssignsAddresses reports whether interfaces of this device type are
// eligible for automatic address assignment when connected.
func (t DeviceType) AssignsAddresses() bool {
	return capabilities[t].AssignsAddresses
}

// DynamicInterfaces reports whether interfaces may be created on demand by a
// connect operation.
func (t DeviceType) DynamicInterfaces() bool {
	return capabilities[t].DynamicInterfaces
}

// ParseDeviceType converts a user-supplied string into a DeviceType.
func ParseDeviceType(s string) (DeviceType, error) {
	t := DeviceType(strings.ToLower(s))
	if !t.Valid() {
		return "", fmt.Errorf("unknown device type %q", s)
	}
	return t, nil
}

// Device is a network node with a set of named interfaces. A Device belongs
// to at most one Topology and its interfaces are mutated only through that
// Topology's connect/disconnect operations.
type Device struct {
	Name       string
	Type       DeviceType
	Interfaces map[string]*Interface
}

// NewDevice creates a device with the given interface set. Additional
// interfaces can be created lazily by connect operations.
func NewDevice(name string, deviceType DeviceType, interfaces ...string) *Device {
	d := &Device{
		Name:       name,
		Type:       deviceType,
		Interfaces: make(map[string]*Interface),
	}
	for _, ifName := range interfaces {
		d.AddInterface(ifName)
	}
	return d
}

// NewRouter creates a router device.
func NewRouter(name string, interfaces ...string) *Device {
	return NewDevice(name, DeviceRouter, interfaces...)
}

// NewSwitch creates a switch device.
func NewSwitch(name string, interfaces ...string) *Device {
	return NewDevice(name, DeviceSwitch, interfaces...)
}

// NewHost creates a host device.
func NewHost(name string, interfaces ...string) *Device {
	return NewDevice(name, DeviceHost, interfaces...)
}

// AddInterface returns the named interface, creating it if absent.
func (d *Device) AddInterface(name string) *Interface {
	if i, ok := d.Interfaces[name]; ok {
		return i
	}
	i := &Interface{Name: name}
	d.Interfaces[name] = i
	return i
}

// Interface returns the named interface, or nil if it does not exist.
func (d *Device) Interface(name string) *Interface {
	return d.Interfaces[name]
}

// InterfaceNames returns the interface names in sorted order.
func (d *Device) InterfaceNames() []string {
	names := make([]string, 0, len(d.Interfaces))
	for name := range d.Interfaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *Device) String() string {
	return fmt.Sprintf("%s: %s", strings.ToUpper(string(d.Type)), d.Name)
}
