package xmac

import (
	"fmt"
	"net"
)

// Addr is an EUI-48 link-layer address.
//
// It is a comparable value type, so it can be used directly as a map key.
type Addr [6]byte

// Broadcast is the all-ones address.
//
// Routing code uses it as the "no route" marker, so it is never a valid
// destination or next hop.
var Broadcast = Addr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// ParseAddr parses an EUI-48 address in any of the formats accepted by
// net.ParseMAC.
func ParseAddr(s string) (Addr, error) {
	hw, err := net.ParseMAC(s)
	if err != nil {
		return Addr{}, err
	}

	return AddrFromSlice(hw)
}

// MustParseAddr is like ParseAddr, but panics on error.
func MustParseAddr(s string) Addr {
	addr, err := ParseAddr(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// AddrFromSlice converts a hardware address into Addr.
func AddrFromSlice(hw []byte) (Addr, error) {
	if len(hw) != 6 {
		return Addr{}, fmt.Errorf("unsupported hardware address %q: must be EUI-48", net.HardwareAddr(hw))
	}

	var addr Addr
	copy(addr[:], hw)
	return addr, nil
}

// IsBroadcast reports whether this is the broadcast address.
func (m Addr) IsBroadcast() bool {
	return m == Broadcast
}

// HardwareAddr returns a copy of this address as net.HardwareAddr.
func (m Addr) HardwareAddr() net.HardwareAddr {
	hw := make(net.HardwareAddr, 6)
	copy(hw, m[:])
	return hw
}

func (m Addr) String() string {
	return net.HardwareAddr(m[:]).String()
}

// Compare returns an integer comparing two addresses byte-wise.
func (m Addr) Compare(other Addr) int {
	for idx := range m {
		if m[idx] != other[idx] {
			if m[idx] < other[idx] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// MarshalText implements encoding.TextMarshaler.
func (m Addr) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Addr) UnmarshalText(text []byte) error {
	addr, err := ParseAddr(string(text))
	if err != nil {
		return err
	}

	*m = addr
	return nil
}
