package xpacket

import (
	"net"
	"testing"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/stretchr/testify/require"
)

func TestSerializeAndParse(t *testing.T) {
	eth := layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0, 0, 0, 0, 0, 1},
		DstMAC:       net.HardwareAddr{0, 0x11, 0x22, 0x33, 0x44, 0x55},
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip4 := layers.IPv4{
		Version:  4,
		Id:       1,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    net.ParseIP("10.0.0.1"),
		DstIP:    net.ParseIP("10.0.0.2"),
	}
	udp := layers.UDP{
		SrcPort: 1024,
		DstPort: 4242,
	}
	require.NoError(t, udp.SetNetworkLayerForChecksum(&ip4))

	data, err := SerializeLayers(&eth, &ip4, &udp, gopacket.Payload("ping"))
	require.NoError(t, err)

	pkt, err := ParseEtherPacket(data)
	require.NoError(t, err)

	ethLayer, ok := pkt.Layer(layers.LayerTypeEthernet).(*layers.Ethernet)
	require.True(t, ok)
	require.Equal(t, eth.SrcMAC, ethLayer.SrcMAC)
	require.Equal(t, eth.DstMAC, ethLayer.DstMAC)

	app := pkt.ApplicationLayer()
	require.NotNil(t, app)
	require.Equal(t, []byte("ping"), app.Payload())
}

func TestParseEtherPacketTruncated(t *testing.T) {
	_, err := ParseEtherPacket([]byte{0, 1, 2})
	require.Error(t, err)
}
