package xmac

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseAddr(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Addr
		wantErr  bool
	}{
		{
			name:     "colon separated",
			input:    "00:11:22:33:44:55",
			expected: Addr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		},
		{
			name:     "dash separated",
			input:    "aa-bb-cc-dd-ee-ff",
			expected: Addr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff},
		},
		{
			name:     "broadcast",
			input:    "ff:ff:ff:ff:ff:ff",
			expected: Broadcast,
		},
		{
			name:    "EUI-64 is rejected",
			input:   "00:11:22:33:44:55:66:77",
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   "not-a-mac",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := ParseAddr(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, addr)
		})
	}
}

func TestAddrString(t *testing.T) {
	addr := MustParseAddr("0A:0B:0C:0D:0E:0F")
	require.Equal(t, "0a:0b:0c:0d:0e:0f", addr.String())
	require.False(t, addr.IsBroadcast())
	require.True(t, Broadcast.IsBroadcast())
}

func TestAddrHardwareAddrIsCopy(t *testing.T) {
	addr := MustParseAddr("00:00:00:00:00:01")
	hw := addr.HardwareAddr()
	hw[5] = 0x42

	require.Equal(t, byte(0x01), addr[5])
}

func TestAddrCompare(t *testing.T) {
	addrs := []Addr{
		MustParseAddr("00:00:00:00:01:00"),
		MustParseAddr("00:00:00:00:00:02"),
		MustParseAddr("00:00:00:00:00:01"),
	}
	slices.SortFunc(addrs, Addr.Compare)

	require.Equal(t, []Addr{
		MustParseAddr("00:00:00:00:00:01"),
		MustParseAddr("00:00:00:00:00:02"),
		MustParseAddr("00:00:00:00:01:00"),
	}, addrs)
	require.Zero(t, addrs[0].Compare(addrs[0]))
}

func TestAddrYAML(t *testing.T) {
	var v struct {
		Addr Addr `yaml:"addr"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(`addr: "00:de:ad:be:ef:00"`), &v))
	require.Equal(t, MustParseAddr("00:de:ad:be:ef:00"), v.Addr)

	require.Error(t, yaml.Unmarshal([]byte(`addr: "00:de:ad"`), &v))
}
