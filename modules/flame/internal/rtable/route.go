package rtable

import (
	"time"

	"github.com/yanet-platform/flame/common/go/xmac"
)

const (
	// InterfaceAny means all interfaces.
	InterfaceAny uint32 = 0xffffffff
	// MaxCost is the cost of an unusable path.
	MaxCost uint32 = 0xff
)

// Route is a routing table entry.
//
// A destination has at most one route at any time.
type Route struct {
	// Destination is the address this route leads to.
	Destination xmac.Addr
	// Retransmitter is the neighbour to forward through.
	Retransmitter xmac.Addr
	// Interface is the egress interface index or InterfaceAny.
	Interface uint32
	// Cost is the accumulated path cost, never above MaxCost.
	Cost uint32
	// Seqnum is the freshness counter set by the destination itself.
	Seqnum uint16
	// ExpiresAt is the moment the route stops being usable.
	ExpiresAt time.Time
}

func (m *Route) expired(now time.Time) bool {
	return !now.Before(m.ExpiresAt)
}

func (m *Route) result() LookupResult {
	return LookupResult{
		Retransmitter: m.Retransmitter,
		Interface:     m.Interface,
		Cost:          uint8(m.Cost),
		Seqnum:        m.Seqnum,
	}
}

// LookupResult is a route lookup result.
type LookupResult struct {
	Retransmitter xmac.Addr
	Interface     uint32
	Cost          uint8
	Seqnum        uint16
}

// NoRoute returns the result reported for unknown or expired destinations.
func NoRoute() LookupResult {
	return LookupResult{
		Retransmitter: xmac.Broadcast,
		Interface:     InterfaceAny,
		Cost:          uint8(MaxCost),
		Seqnum:        0,
	}
}

// IsValid reports whether the result describes a usable route.
func (m LookupResult) IsValid() bool {
	return !m.Retransmitter.IsBroadcast()
}

// seqnumNewer reports whether a is ahead of b in 16-bit serial number space.
//
// Numbers exactly half the space apart are not ordered, so neither is newer.
func seqnumNewer(a uint16, b uint16) bool {
	return int16(a-b) > 0
}

func clampCost(cost uint32) uint32 {
	return min(cost, MaxCost)
}
