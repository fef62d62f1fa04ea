// Package domain defines the core types of the netsim topology model.
//
// This package contains the entities that represent a simulated network:
// devices, their interfaces, the links between them, and the Topology that
// owns all of them.
//
// # Core Types
//
// Device represents a network node (router, switch, or host) with a set of
// named interfaces. Behavioral differences between device types are expressed
// through a per-type capability table rather than subtyping.
//
// Interface represents a connection point on a device. It optionally carries
// an IPv4 address with prefix length, and while linked it holds a weak
// reference (device name + interface name) to its peer.
//
// Link represents an undirected connection between two interfaces on two
// devices, with an optional bandwidth attribute in Mbps.
//
// Topology owns the devices and links and maintains an undirected graph view
// (one vertex per device, one edge per connected device pair) that stays
// consistent with every mutation. All mutations go through Topology methods;
// a failed operation leaves the Topology unchanged.
//
// # Snapshots
//
// Snapshot is the read-only exchange shape consumed by the persistence,
// rendering, and display collaborators. FromSnapshot rebuilds a fresh
// Topology from a snapshot without touching any live one.
//
// The model is designed for a single synchronous actor. Embedders that need
// concurrent access must serialize all calls with an external lock.
package domain
