package forward

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"go.uber.org/zap"

	"github.com/yanet-platform/flame/common/go/xmac"
	"github.com/yanet-platform/flame/common/go/xpacket"
	"github.com/yanet-platform/flame/modules/flame/internal/rtable"
)

// EtherType is the EtherType of FLAME frames.
const EtherType layers.EthernetType = 0x4305

// lengthSize is the size of the payload length prefix.
//
// Short frames are padded on serialization, so the payload carries its own
// length.
const lengthSize = 2

// ErrNoRoute is returned when there is no valid path to the destination.
var ErrNoRoute = errors.New("no route")

func init() {
	// Data following a FLAME EtherType is opaque to gopacket.
	layers.EthernetTypeMetadata[EtherType] = layers.EnumMetadata{
		DecodeWith: gopacket.DecodePayload,
		Name:       "FLAME",
		LayerType:  gopacket.LayerTypePayload,
	}
}

// Resolver resolves destinations into next hops.
type Resolver interface {
	Lookup(destination xmac.Addr) rtable.LookupResult
}

// Frame is a data unit ready to be transmitted.
type Frame struct {
	// Interface is the egress interface index or rtable.InterfaceAny.
	Interface uint32
	// NextHop is the retransmitter the frame is addressed to.
	NextHop xmac.Addr
	// Data is the serialized Ethernet frame.
	Data []byte
}

// Option is a function that configures the forwarder.
type Option func(*options)

// WithLog configures the forwarder with a logger.
func WithLog(log *zap.SugaredLogger) Option {
	return func(o *options) {
		o.Log = log
	}
}

type options struct {
	Log *zap.SugaredLogger
}

func newOptions() *options {
	return &options{
		Log: zap.NewNop().Sugar(),
	}
}

// Forwarder frames data units towards the next hop known to the routing
// table.
type Forwarder struct {
	resolver Resolver
	local    xmac.Addr
	log      *zap.SugaredLogger
}

// NewForwarder creates a new forwarder sending from the given local address.
func NewForwarder(resolver Resolver, local xmac.Addr, options ...Option) *Forwarder {
	opts := newOptions()
	for _, o := range options {
		o(opts)
	}

	return &Forwarder{
		resolver: resolver,
		local:    local,
		log:      opts.Log,
	}
}

// Forward frames the payload for the destination.
//
// Returns ErrNoRoute if the destination is unreachable, in which case the
// payload must be dropped.
func (m *Forwarder) Forward(destination xmac.Addr, payload []byte) (Frame, error) {
	result := m.resolver.Lookup(destination)
	if !result.IsValid() {
		m.log.Debugw("dropping data unit", zap.Stringer("destination", destination))
		return Frame{}, fmt.Errorf("%w to %s", ErrNoRoute, destination)
	}
	if len(payload) > math.MaxUint16 {
		return Frame{}, fmt.Errorf("payload of %d bytes is too large", len(payload))
	}

	body := make([]byte, lengthSize+len(payload))
	binary.BigEndian.PutUint16(body, uint16(len(payload)))
	copy(body[lengthSize:], payload)

	eth := layers.Ethernet{
		SrcMAC:       m.local.HardwareAddr(),
		DstMAC:       result.Retransmitter.HardwareAddr(),
		EthernetType: EtherType,
	}

	data, err := xpacket.SerializeLayers(&eth, gopacket.Payload(body))
	if err != nil {
		return Frame{}, fmt.Errorf("failed to frame data unit to %s: %w", destination, err)
	}

	m.log.Debugw("forwarding data unit",
		zap.Stringer("destination", destination),
		zap.Stringer("retransmitter", result.Retransmitter),
		zap.Uint32("interface", result.Interface),
		zap.Int("size", len(data)),
	)

	return Frame{
		Interface: result.Interface,
		NextHop:   result.Retransmitter,
		Data:      data,
	}, nil
}

// Decoded is a parsed FLAME frame.
type Decoded struct {
	Source      xmac.Addr
	Destination xmac.Addr
	Payload     []byte
}

// Decode parses a frame produced by Forward.
func Decode(data []byte) (Decoded, error) {
	pkt, err := xpacket.ParseEtherPacket(data)
	if err != nil {
		return Decoded{}, err
	}

	eth, ok := pkt.Layer(layers.LayerTypeEthernet).(*layers.Ethernet)
	if !ok {
		return Decoded{}, fmt.Errorf("not an ethernet frame")
	}
	if eth.EthernetType != EtherType {
		return Decoded{}, fmt.Errorf("unexpected ethernet type %s", eth.EthernetType)
	}

	src, err := xmac.AddrFromSlice(eth.SrcMAC)
	if err != nil {
		return Decoded{}, fmt.Errorf("invalid source address: %w", err)
	}
	dst, err := xmac.AddrFromSlice(eth.DstMAC)
	if err != nil {
		return Decoded{}, fmt.Errorf("invalid destination address: %w", err)
	}

	body := eth.Payload
	if len(body) < lengthSize {
		return Decoded{}, fmt.Errorf("truncated frame: %d bytes of payload", len(body))
	}
	size := int(binary.BigEndian.Uint16(body))
	if len(body)-lengthSize < size {
		return Decoded{}, fmt.Errorf("truncated frame: expected %d bytes of payload, got %d", size, len(body)-lengthSize)
	}

	return Decoded{
		Source:      src,
		Destination: dst,
		Payload:     body[lengthSize : lengthSize+size],
	}, nil
}
