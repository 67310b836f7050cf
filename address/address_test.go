package address

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Address
		wantErr bool
	}{
		{name: "simple", input: "1.2.3.4", want: Address{1, 2, 3, 4}},
		{name: "zeros", input: "0.0.0.0", want: Unspecified},
		{name: "broadcast", input: "255.255.255.255", want: Broadcast},
		{name: "mixed widths", input: "10.200.0.99", want: Address{10, 200, 0, 99}},
		{name: "too few octets", input: "1.2.3", wantErr: true},
		{name: "too many octets", input: "1.2.3.4.5", wantErr: true},
		{name: "out of range", input: "256.1.1.1", wantErr: true},
		{name: "negative", input: "-1.1.1.1", wantErr: true},
		{name: "plus sign", input: "+1.1.1.1", wantErr: true},
		{name: "leading zero", input: "01.1.1.1", wantErr: true},
		{name: "empty octet", input: "1..1.1", wantErr: true},
		{name: "letters", input: "a.b.c.d", wantErr: true},
		{name: "whitespace", input: " 1.2.3.4", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAddress(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidAddress))

				var fe *FormatError
				require.True(t, errors.As(err, &fe))
				assert.Equal(t, tt.input, fe.Input)
				assert.False(t, IsValidAddress(tt.input))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsValidAddress(tt.input))
		})
	}
}

func TestAddressRoundTrip(t *testing.T) {
	for _, text := range []string{"0.0.0.0", "1.2.3.4", "255.255.255.255", "10.0.100.250"} {
		addr, err := ParseAddress(text)
		require.NoError(t, err)
		assert.Equal(t, text, addr.String())
	}

	for a := 0; a < 256; a += 17 {
		addr := Address{byte(a), byte(255 - a), 0, byte(a / 2)}
		back, err := ParseAddress(addr.String())
		require.NoError(t, err)
		assert.Equal(t, addr, back)
	}
}

func TestNewAddressClamps(t *testing.T) {
	assert.Equal(t, Address{0, 255, 7, 255}, NewAddress(-5, 300, 7, 1000))
	assert.Equal(t, Address{1, 2, 3, 4}, NewAddress(1, 2, 3, 4))
}

func TestAddressPredicates(t *testing.T) {
	assert.True(t, Broadcast.IsBroadcast())
	assert.False(t, Unspecified.IsBroadcast())
	assert.True(t, Unspecified.IsUnspecified())
	assert.False(t, MustParseAddress("0.0.0.1").IsUnspecified())
}

func TestMustParseAddressPanics(t *testing.T) {
	assert.Panics(t, func() { MustParseAddress("1.2.3") })
}

func TestParseSocket(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Socket
		wantErr error
	}{
		{name: "valid", input: "1.2.3.4:80", want: Socket{Address: Address{1, 2, 3, 4}, Port: 80}},
		{name: "max port", input: "255.255.255.255:65535", want: Socket{Address: Broadcast, Port: 65535}},
		{name: "min port", input: "0.0.0.0:1", want: Socket{Port: 1}},
		{name: "zero port", input: "1.2.3.4:0", wantErr: ErrInvalidPort},
		{name: "port overflow", input: "1.2.3.4:65536", wantErr: ErrInvalidPort},
		{name: "port text", input: "1.2.3.4:http", wantErr: ErrInvalidPort},
		{name: "empty port", input: "1.2.3.4:", wantErr: ErrInvalidPort},
		{name: "leading zero port", input: "1.2.3.4:080", wantErr: ErrInvalidPort},
		{name: "bad address", input: "1.2.3:80", wantErr: ErrInvalidAddress},
		{name: "extra colon", input: "1.2.3.4:5:6", wantErr: ErrInvalidAddress},
		{name: "no separator", input: "1.2.3.4", wantErr: ErrInvalidSocket},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSocket(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, IsValidSocket(tt.input))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
			assert.True(t, IsValidSocket(tt.input))
		})
	}
}

func TestFormatErrorMessage(t *testing.T) {
	_, err := ParseSocket("x")
	require.Error(t, err)
	assert.Equal(t, `parse socket "x": invalid socket address`, err.Error())
}
