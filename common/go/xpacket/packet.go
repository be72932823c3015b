package xpacket

import (
	"fmt"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
)

// SerializeLayers serializes the given layers into a single buffer, fixing
// lengths and computing checksums on the way.
func SerializeLayers(lyrs ...gopacket.SerializableLayer) ([]byte, error) {
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{
		FixLengths:       true,
		ComputeChecksums: true,
	}

	if err := gopacket.SerializeLayers(buf, opts, lyrs...); err != nil {
		return nil, fmt.Errorf("failed to serialize layers: %w", err)
	}

	return buf.Bytes(), nil
}

// ParseEtherPacket decodes the data as an Ethernet frame.
//
// Frames that gopacket fails to decode completely are reported as errors.
func ParseEtherPacket(data []byte) (gopacket.Packet, error) {
	pkt := gopacket.NewPacket(
		data,
		layers.LayerTypeEthernet,
		gopacket.Default,
	)

	if errLayer := pkt.ErrorLayer(); errLayer != nil {
		return nil, fmt.Errorf("failed to parse packet: %w", errLayer.Error())
	}

	return pkt, nil
}
