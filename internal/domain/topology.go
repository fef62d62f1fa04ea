package domain

import (
	"errors"
	"fmt"
	"net/netip"
	"sort"

	"github.com/dominikbraun/graph"

	"netsim/internal/ipam"
)

// Topology owns the devices and links of a simulated network and keeps an
// undirected graph view consistent with them. Devices and links are mutated
// only through Topology operations; every operation validates all
// preconditions before mutating anything.
type Topology struct {
	Name string

	devices map[string]*Device
	links   []*Link
	graph   graph.Graph[string, string]
	pool    *ipam.Pool
}

// New creates an empty topology with the default address pool.
func New(name string) *Topology {
	return NewWithPool(name, ipam.Default())
}

// NewWithPool creates an empty topology using the given address pool for
// automatic assignment.
func NewWithPool(name string, pool *ipam.Pool) *Topology {
	return &Topology{
		Name:    name,
		devices: make(map[string]*Device),
		graph:   graph.New(graph.StringHash),
		pool:    pool,
	}
}

// Pool returns the topology's address pool.
func (t *Topology) Pool() *ipam.Pool {
	return t.pool
}

// AddDevice registers a device and adds its graph vertex. It fails with
// ErrDuplicateName if a device with the same name already exists.
func (t *Topology) AddDevice(d *Device) error {
	if d == nil || d.Name == "" {
		return fmt.Errorf("device name required")
	}
	if !d.Type.Valid() {
		return fmt.Errorf("unknown device type %q", d.Type)
	}
	if _, exists := t.devices[d.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, d.Name)
	}

	t.devices[d.Name] = d
	_ = t.graph.AddVertex(d.Name)
	return nil
}

// Device returns the named device or fails with ErrNotFound.
func (t *Topology) Device(name string) (*Device, error) {
	d, ok := t.devices[name]
	if !ok {
		return nil, fmt.Errorf("%w: device %q", ErrNotFound, name)
	}
	return d, nil
}

// Contains reports whether a device with the given name exists.
func (t *Topology) Contains(name string) bool {
	_, ok := t.devices[name]
	return ok
}

// Devices returns all devices sorted by name.
func (t *Topology) Devices() []*Device {
	out := make([]*Device, 0, len(t.devices))
	for _, d := range t.devices {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DeviceNames returns all device names in sorted order.
func (t *Topology) DeviceNames() []string {
	names := make([]string, 0, len(t.devices))
	for name := range t.devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Links returns a copy of the link set in canonical order.
func (t *Topology) Links() []*Link {
	out := make([]*Link, len(t.links))
	copy(out, t.links)
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A.Device < out[j].A.Device ||
				(out[i].A.Device == out[j].A.Device && out[i].A.Interface < out[j].A.Interface)
		}
		return out[i].B.Device < out[j].B.Device ||
			(out[i].B.Device == out[j].B.Device && out[i].B.Interface < out[j].B.Interface)
	})
	return out
}

// RemoveDevice deletes a device, disconnecting every link that touches it
// and releasing its interface addresses back to the pool. It fails with
// ErrNotFound if the device does not exist.
func (t *Topology) RemoveDevice(name string) error {
	d, ok := t.devices[name]
	if !ok {
		return fmt.Errorf("%w: device %q", ErrNotFound, name)
	}

	for _, l := range t.linksTouching(name) {
		t.removeLink(l)
	}
	for _, i := range d.Interfaces {
		if i.HasAddr() {
			t.pool.Release(i.Addr.Addr())
		}
	}

	delete(t.devices, name)
	_ = t.graph.RemoveVertex(name)
	return nil
}

// Connect links two interfaces together, creating them on demand. Both
// interfaces must be free; connecting an interface to itself fails with
// ErrSelfLoop. On success both interfaces report Connected with mutual peer
// references, and router/host interfaces without an address receive the next
// free one from the pool. Bandwidth is in Mbps; zero means unspecified.
func (t *Topology) Connect(deviceA, ifaceA, deviceB, ifaceB string, bandwidth float64) error {
	da, ok := t.devices[deviceA]
	if !ok {
		return fmt.Errorf("%w: device %q", ErrNotFound, deviceA)
	}
	db, ok := t.devices[deviceB]
	if !ok {
		return fmt.Errorf("%w: device %q", ErrNotFound, deviceB)
	}
	if deviceA == deviceB && ifaceA == ifaceB {
		return fmt.Errorf("%w: %s:%s", ErrSelfLoop, deviceA, ifaceA)
	}
	if bandwidth < 0 {
		return fmt.Errorf("bandwidth must be positive, got %g", bandwidth)
	}

	ia := da.Interface(ifaceA)
	if ia != nil && ia.Connected {
		return fmt.Errorf("%w: %s:%s", ErrInterfaceBusy, deviceA, ifaceA)
	}
	ib := db.Interface(ifaceB)
	if ib != nil && ib.Connected {
		return fmt.Errorf("%w: %s:%s", ErrInterfaceBusy, deviceB, ifaceB)
	}

	// All preconditions hold. Addresses are allocated before any state is
	// touched so pool exhaustion cannot leave a half-connected link.
	needA := da.Type.AssignsAddresses() && (ia == nil || !ia.HasAddr())
	needB := db.Type.AssignsAddresses() && (ib == nil || !ib.HasAddr())

	var addrA, addrB netip.Prefix
	var err error
	if needA {
		if addrA, err = t.pool.Allocate(); err != nil {
			return err
		}
	}
	if needB {
		if addrB, err = t.pool.Allocate(); err != nil {
			if needA {
				t.pool.Release(addrA.Addr())
			}
			return err
		}
	}

	ia = da.AddInterface(ifaceA)
	ib = db.AddInterface(ifaceB)
	if needA {
		ia.Addr = addrA
	}
	if needB {
		ib.Addr = addrB
	}
	ia.Connected = true
	ia.Peer = &Endpoint{Device: deviceB, Interface: ifaceB}
	ib.Connected = true
	ib.Peer = &Endpoint{Device: deviceA, Interface: ifaceA}

	link := &Link{
		A:         Endpoint{Device: deviceA, Interface: ifaceA},
		B:         Endpoint{Device: deviceB, Interface: ifaceB},
		Bandwidth: bandwidth,
	}
	link.Normalize()
	t.links = append(t.links, link)

	if deviceA != deviceB {
		// Parallel links share a single graph edge.
		if err := t.graph.AddEdge(deviceA, deviceB); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			// Vertices are known to exist, so this cannot happen.
			return fmt.Errorf("add graph edge: %w", err)
		}
	}
	return nil
}

// Disconnect tears down the link attached to the given interface. It fails
// with ErrNotFound if the device or interface is unknown and with
// ErrNotConnected if the interface has no active link.
func (t *Topology) Disconnect(device, iface string) error {
	d, ok := t.devices[device]
	if !ok {
		return fmt.Errorf("%w: device %q", ErrNotFound, device)
	}
	i := d.Interface(iface)
	if i == nil {
		return fmt.Errorf("%w: interface %s:%s", ErrNotFound, device, iface)
	}
	if !i.Connected {
		return fmt.Errorf("%w: %s:%s", ErrNotConnected, device, iface)
	}

	for _, l := range t.links {
		if l.HasEndpoint(device, iface) {
			t.removeLink(l)
			return nil
		}
	}
	// Connected interfaces always have a link; reaching here means the
	// pairing invariant was broken externally.
	return fmt.Errorf("%w: %s:%s has no link", ErrNotConnected, device, iface)
}

// Adjacency returns the graph view as a map from device name to its sorted
// neighbor names. Every device appears as a key, isolated ones with an empty
// list.
func (t *Topology) Adjacency() map[string][]string {
	out := make(map[string][]string, len(t.devices))
	for name := range t.devices {
		out[name] = nil
	}
	adj, err := t.graph.AdjacencyMap()
	if err != nil {
		return out
	}
	for v, neighbors := range adj {
		list := make([]string, 0, len(neighbors))
		for n := range neighbors {
			list = append(list, n)
		}
		sort.Strings(list)
		out[v] = list
	}
	return out
}

func (t *Topology) String() string {
	return fmt.Sprintf("Network %q with %d devices and %d links", t.Name, len(t.devices), len(t.links))
}

func (t *Topology) linksTouching(device string) []*Link {
	var out []*Link
	for _, l := range t.links {
		if l.Involves(device) {
			out = append(out, l)
		}
	}
	return out
}

// removeLink clears both endpoint interfaces and drops the link. The graph
// edge goes only when no other link remains between the device pair.
func (t *Topology) removeLink(link *Link) {
	for _, ep := range []Endpoint{link.A, link.B} {
		if d, ok := t.devices[ep.Device]; ok {
			if i := d.Interface(ep.Interface); i != nil {
				i.Connected = false
				i.Peer = nil
			}
		}
	}

	for idx, l := range t.links {
		if l == link {
			t.links = append(t.links[:idx], t.links[idx+1:]...)
			break
		}
	}

	if link.A.Device != link.B.Device && !t.linked(link.A.Device, link.B.Device) {
		_ = t.graph.RemoveEdge(link.A.Device, link.B.Device)
	}
}

func (t *Topology) linked(a, b string) bool {
	for _, l := range t.links {
		if (l.A.Device == a && l.B.Device == b) || (l.A.Device == b && l.B.Device == a) {
			return true
		}
	}
	return false
}
