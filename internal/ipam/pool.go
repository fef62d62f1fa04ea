// Package ipam provides the address pool used for automatic interface
// address assignment. A Pool is owned by a single Topology; two topologies
// with their own pools never collide.
package ipam

import (
	"errors"
	"fmt"
	"net/netip"
)

// ErrPoolExhausted is returned by Allocate when no free address remains.
var ErrPoolExhausted = errors.New("address pool exhausted")

// DefaultCIDR is the default private range for automatic assignment.
const DefaultCIDR = "10.0.0.0/24"

// Pool hands out unique IPv4 host addresses from a single prefix. The
// network and broadcast addresses are never allocated. Released addresses
// become available again.
type Pool struct {
	prefix netip.Prefix
	last   netip.Addr // broadcast address, excluded
	inUse  map[netip.Addr]bool
}

// New creates a pool over the given IPv4 prefix.
func New(prefix netip.Prefix) (*Pool, error) {
	if !prefix.IsValid() || !prefix.Addr().Is4() {
		return nil, fmt.Errorf("pool prefix must be a valid IPv4 prefix, got %q", prefix)
	}
	if prefix.Bits() > 30 {
		return nil, fmt.Errorf("pool prefix %q leaves no assignable host addresses", prefix)
	}
	prefix = prefix.Masked()
	return &Pool{
		prefix: prefix,
		last:   lastAddr(prefix),
		inUse:  make(map[netip.Addr]bool),
	}, nil
}

// Parse creates a pool from a CIDR string such as "10.0.0.0/24".
func Parse(cidr string) (*Pool, error) {
	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return nil, fmt.Errorf("parse pool CIDR: %w", err)
	}
	return New(prefix)
}

// Default returns a pool over DefaultCIDR.
func Default() *Pool {
	p, err := Parse(DefaultCIDR)
	if err != nil {
		panic(err) // DefaultCIDR is a constant, cannot fail
	}
	return p
}

// Prefix returns the pool's prefix.
func (p *Pool) Prefix() netip.Prefix {
	return p.prefix
}

// Allocate returns the lowest free host address in the pool, with the pool's
// prefix length. It fails with ErrPoolExhausted when every host address is
// in use.
func (p *Pool) Allocate() (netip.Prefix, error) {
	for addr := p.prefix.Addr().Next(); addr.Less(p.last); addr = addr.Next() {
		if p.inUse[addr] {
			continue
		}
		p.inUse[addr] = true
		return netip.PrefixFrom(addr, p.prefix.Bits()), nil
	}
	return netip.Prefix{}, fmt.Errorf("%w: %s", ErrPoolExhausted, p.prefix)
}

// Release returns an address to the pool. Releasing an address that is not
// allocated is a no-op.
func (p *Pool) Release(addr netip.Addr) {
	delete(p.inUse, addr)
}

// Reserve marks an externally assigned address as taken so Allocate never
// hands it out. Addresses outside the pool's prefix are ignored.
func (p *Pool) Reserve(addr netip.Addr) {
	if p.prefix.Contains(addr) {
		p.inUse[addr] = true
	}
}

// Free returns the number of host addresses still available.
func (p *Pool) Free() int {
	n := 0
	for addr := p.prefix.Addr().Next(); addr.Less(p.last); addr = addr.Next() {
		if !p.inUse[addr] {
			n++
		}
	}
	return n
}

// lastAddr computes the highest address in the prefix (the broadcast address
// for IPv4 subnets).
func lastAddr(prefix netip.Prefix) netip.Addr {
	a := prefix.Addr().As4()
	for i := prefix.Bits(); i < 32; i++ {
		a[i/8] |= 1 << (7 - i%8)
	}
	return netip.AddrFrom4(a)
}
