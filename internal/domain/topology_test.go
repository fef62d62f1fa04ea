package domain

import (
	"errors"
	"net/netip"
	"testing"

	"netsim/internal/ipam"
)

func mustPool(t *testing.T, cidr string) *ipam.Pool {
	t.Helper()
	pool, err := ipam.Parse(cidr)
	if err != nil {
		t.Fatalf("parse pool %q: %v", cidr, err)
	}
	return pool
}

// buildLab creates the reference scenario: R1 -- SW1 -- PC1.
func buildLab(t *testing.T) *Topology {
	t.Helper()
	topo := New("lab")
	for _, d := range []*Device{
		NewRouter("R1", "eth0"),
		NewSwitch("SW1", "eth1", "eth2"),
		NewHost("PC1", "eth0"),
	} {
		if err := topo.AddDevice(d); err != nil {
			t.Fatalf("add device %s: %v", d.Name, err)
		}
	}
	if err := topo.Connect("R1", "eth0", "SW1", "eth1", 0); err != nil {
		t.Fatalf("connect R1-SW1: %v", err)
	}
	if err := topo.Connect("SW1", "eth2", "PC1", "eth0", 0); err != nil {
		t.Fatalf("connect SW1-PC1: %v", err)
	}
	return topo
}

func TestAddDevice(t *testing.T) {
	t.Run("registers device and vertex", func(t *testing.T) {
		topo := New("net")
		if err := topo.AddDevice(NewHost("PC1", "eth0")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !topo.Contains("PC1") {
			t.Error("expected topology to contain PC1")
		}
		if _, ok := topo.Adjacency()["PC1"]; !ok {
			t.Error("expected PC1 vertex in graph view")
		}
	})

	t.Run("duplicate name fails and leaves topology unchanged", func(t *testing.T) {
		topo := New("net")
		if err := topo.AddDevice(NewHost("PC1", "eth0")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		original, _ := topo.Device("PC1")

		err := topo.AddDevice(NewRouter("PC1"))
		if !errors.Is(err, ErrDuplicateName) {
			t.Fatalf("expected ErrDuplicateName, got %v", err)
		}
		if d, _ := topo.Device("PC1"); d != original {
			t.Error("expected original device to survive the failed add")
		}
		if len(topo.Devices()) != 1 {
			t.Errorf("expected 1 device, got %d", len(topo.Devices()))
		}
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		topo := New("net")
		if err := topo.AddDevice(NewDevice("X", DeviceType("firewall"))); err == nil {
			t.Error("expected error for unknown device type")
		}
	})
}

func TestDeviceLookup(t *testing.T) {
	topo := buildLab(t)

	t.Run("missing device fails with ErrNotFound", func(t *testing.T) {
		if _, err := topo.Device("PC2"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("devices are enumerated in sorted order", func(t *testing.T) {
		names := topo.DeviceNames()
		want := []string{"PC1", "R1", "SW1"}
		if len(names) != len(want) {
			t.Fatalf("expected %d devices, got %d", len(want), len(names))
		}
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("device %d: expected %s, got %s", i, want[i], names[i])
			}
		}
	})
}

func TestConnect(t *testing.T) {
	t.Run("sets mutual peers and connected flags", func(t *testing.T) {
		topo := buildLab(t)
		r1, _ := topo.Device("R1")
		sw1, _ := topo.Device("SW1")

		eth0 := r1.Interface("eth0")
		eth1 := sw1.Interface("eth1")
		if !eth0.Connected || !eth1.Connected {
			t.Fatal("expected both interfaces to be connected")
		}
		if eth0.Peer == nil || eth0.Peer.Device != "SW1" || eth0.Peer.Interface != "eth1" {
			t.Errorf("expected R1:eth0 peer SW1:eth1, got %v", eth0.Peer)
		}
		if eth1.Peer == nil || eth1.Peer.Device != "R1" || eth1.Peer.Interface != "eth0" {
			t.Errorf("expected SW1:eth1 peer R1:eth0, got %v", eth1.Peer)
		}
	})

	t.Run("creates interfaces on demand", func(t *testing.T) {
		topo := New("net")
		topo.AddDevice(NewHost("A"))
		topo.AddDevice(NewHost("B"))
		if err := topo.Connect("A", "eth9", "B", "eth9", 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		a, _ := topo.Device("A")
		if a.Interface("eth9") == nil {
			t.Error("expected interface eth9 to be created on demand")
		}
	})

	t.Run("missing device fails with ErrNotFound", func(t *testing.T) {
		topo := buildLab(t)
		if err := topo.Connect("R1", "eth5", "PC9", "eth0", 0); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("busy interface fails with ErrInterfaceBusy", func(t *testing.T) {
		topo := buildLab(t)
		err := topo.Connect("R1", "eth0", "SW1", "eth3", 0)
		if !errors.Is(err, ErrInterfaceBusy) {
			t.Fatalf("expected ErrInterfaceBusy, got %v", err)
		}
		sw1, _ := topo.Device("SW1")
		if sw1.Interface("eth3") != nil {
			t.Error("failed connect must not create the remote interface")
		}
	})

	t.Run("interface self-loop fails with ErrSelfLoop", func(t *testing.T) {
		topo := New("net")
		topo.AddDevice(NewHost("A", "eth0"))
		if err := topo.Connect("A", "eth0", "A", "eth0", 0); !errors.Is(err, ErrSelfLoop) {
			t.Errorf("expected ErrSelfLoop, got %v", err)
		}
	})

	t.Run("same device different interfaces is allowed", func(t *testing.T) {
		topo := New("net")
		topo.AddDevice(NewHost("A", "eth0", "eth1"))
		if err := topo.Connect("A", "eth0", "A", "eth1", 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("records bandwidth", func(t *testing.T) {
		topo := New("net")
		topo.AddDevice(NewHost("A"))
		topo.AddDevice(NewHost("B"))
		if err := topo.Connect("A", "eth0", "B", "eth0", 100); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		links := topo.Links()
		if len(links) != 1 || links[0].Bandwidth != 100 {
			t.Errorf("expected one link with bandwidth 100, got %v", links)
		}
	})

	t.Run("parallel links between the same pair", func(t *testing.T) {
		topo := New("net")
		topo.AddDevice(NewSwitch("SW1"))
		topo.AddDevice(NewSwitch("SW2"))
		if err := topo.Connect("SW1", "p1", "SW2", "p1", 0); err != nil {
			t.Fatalf("first link: %v", err)
		}
		if err := topo.Connect("SW1", "p2", "SW2", "p2", 0); err != nil {
			t.Fatalf("second link: %v", err)
		}
		if len(topo.Links()) != 2 {
			t.Errorf("expected 2 links, got %d", len(topo.Links()))
		}

		// Dropping one leaves the pair adjacent through the other.
		if err := topo.Disconnect("SW1", "p1"); err != nil {
			t.Fatalf("disconnect: %v", err)
		}
		adj := topo.Adjacency()
		if len(adj["SW1"]) != 1 || adj["SW1"][0] != "SW2" {
			t.Errorf("expected SW1 still adjacent to SW2, got %v", adj["SW1"])
		}
	})
}

func TestDisconnect(t *testing.T) {
	t.Run("restores both interfaces", func(t *testing.T) {
		topo := buildLab(t)
		if err := topo.Disconnect("R1", "eth0"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		r1, _ := topo.Device("R1")
		sw1, _ := topo.Device("SW1")
		for _, i := range []*Interface{r1.Interface("eth0"), sw1.Interface("eth1")} {
			if i.Connected {
				t.Error("expected interface to be disconnected")
			}
			if i.Peer != nil {
				t.Errorf("expected nil peer, got %v", i.Peer)
			}
		}
		if len(topo.Links()) != 1 {
			t.Errorf("expected 1 remaining link, got %d", len(topo.Links()))
		}
	})

	t.Run("keeps the interface address", func(t *testing.T) {
		topo := buildLab(t)
		r1, _ := topo.Device("R1")
		addr := r1.Interface("eth0").Addr
		if err := topo.Disconnect("R1", "eth0"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r1.Interface("eth0").Addr != addr {
			t.Error("disconnect must not clear the interface address")
		}
	})

	t.Run("idle interface fails with ErrNotConnected", func(t *testing.T) {
		topo := New("net")
		topo.AddDevice(NewHost("A", "eth0"))
		if err := topo.Disconnect("A", "eth0"); !errors.Is(err, ErrNotConnected) {
			t.Errorf("expected ErrNotConnected, got %v", err)
		}
	})

	t.Run("unknown interface fails with ErrNotFound", func(t *testing.T) {
		topo := New("net")
		topo.AddDevice(NewHost("A"))
		if err := topo.Disconnect("A", "eth7"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRemoveDevice(t *testing.T) {
	t.Run("missing device fails with ErrNotFound", func(t *testing.T) {
		topo := New("net")
		if err := topo.RemoveDevice("X"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("removes exactly the touching links", func(t *testing.T) {
		topo := buildLab(t)
		if err := topo.RemoveDevice("SW1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if topo.Contains("SW1") {
			t.Error("expected SW1 to be gone")
		}
		if len(topo.Links()) != 0 {
			t.Errorf("expected no links left, got %d", len(topo.Links()))
		}

		r1, _ := topo.Device("R1")
		if r1.Interface("eth0").Connected {
			t.Error("expected R1:eth0 to be disconnected")
		}
	})

	t.Run("unrelated links survive", func(t *testing.T) {
		topo := buildLab(t)
		topo.AddDevice(NewHost("PC2", "eth0"))
		if err := topo.Connect("PC2", "eth0", "SW1", "eth3", 0); err != nil {
			t.Fatalf("connect PC2: %v", err)
		}
		if err := topo.RemoveDevice("R1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(topo.Links()) != 2 {
			t.Errorf("expected 2 links to survive, got %d", len(topo.Links()))
		}
	})

	t.Run("releases addresses back to the pool", func(t *testing.T) {
		pool := mustPool(t, "10.0.0.0/30") // exactly two host addresses
		topo := NewWithPool("net", pool)
		topo.AddDevice(NewHost("A", "eth0"))
		topo.AddDevice(NewHost("B", "eth0"))
		topo.AddDevice(NewHost("C", "eth0"))
		if err := topo.Connect("A", "eth0", "B", "eth0", 0); err != nil {
			t.Fatalf("connect: %v", err)
		}
		if err := topo.RemoveDevice("A"); err != nil {
			t.Fatalf("remove: %v", err)
		}
		// A's address is free again, so C can connect to B.
		if err := topo.Connect("C", "eth0", "B", "eth0", 0); err != nil {
			t.Fatalf("expected released address to be reusable, got %v", err)
		}
	})
}

func TestAddressAssignment(t *testing.T) {
	t.Run("hosts and routers get distinct addresses, switches none", func(t *testing.T) {
		topo := buildLab(t)

		r1, _ := topo.Device("R1")
		sw1, _ := topo.Device("SW1")
		pc1, _ := topo.Device("PC1")

		rAddr := r1.Interface("eth0")
		pAddr := pc1.Interface("eth0")
		if !rAddr.HasAddr() {
			t.Error("expected R1:eth0 to receive an address")
		}
		if !pAddr.HasAddr() {
			t.Error("expected PC1:eth0 to receive an address")
		}
		if rAddr.Addr == pAddr.Addr {
			t.Errorf("expected distinct addresses, both got %s", rAddr.Addr)
		}
		for _, name := range sw1.InterfaceNames() {
			if sw1.Interface(name).HasAddr() {
				t.Errorf("expected switch interface %s to stay address-less", name)
			}
		}
	})

	t.Run("preset address is kept", func(t *testing.T) {
		topo := New("net")
		a := NewHost("A", "eth0")
		a.Interface("eth0").Addr = netip.MustParsePrefix("192.168.5.7/24")
		topo.AddDevice(a)
		topo.AddDevice(NewSwitch("SW", "p1"))
		if err := topo.Connect("A", "eth0", "SW", "p1", 0); err != nil {
			t.Fatalf("connect: %v", err)
		}
		if got := a.Interface("eth0").Addr.String(); got != "192.168.5.7/24" {
			t.Errorf("expected preset address to survive, got %s", got)
		}
	})

	t.Run("exhausted pool fails without partial mutation", func(t *testing.T) {
		pool := mustPool(t, "10.0.0.0/30")
		topo := NewWithPool("net", pool)
		topo.AddDevice(NewHost("A", "eth0"))
		topo.AddDevice(NewHost("B", "eth0"))
		topo.AddDevice(NewHost("C", "eth0"))
		topo.AddDevice(NewHost("D", "eth0"))
		if err := topo.Connect("A", "eth0", "B", "eth0", 0); err != nil {
			t.Fatalf("first connect: %v", err)
		}

		err := topo.Connect("C", "eth0", "D", "eth0", 0)
		if !errors.Is(err, ipam.ErrPoolExhausted) {
			t.Fatalf("expected ErrPoolExhausted, got %v", err)
		}

		c, _ := topo.Device("C")
		d, _ := topo.Device("D")
		if c.Interface("eth0").Connected || d.Interface("eth0").Connected {
			t.Error("failed connect must leave both interfaces disconnected")
		}
		if c.Interface("eth0").HasAddr() || d.Interface("eth0").HasAddr() {
			t.Error("failed connect must not leave addresses behind")
		}
		if len(topo.Links()) != 1 {
			t.Errorf("expected 1 link, got %d", len(topo.Links()))
		}
	})
}
