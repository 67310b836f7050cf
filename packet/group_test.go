package packet

import (
	"encoding/binary"
	"testing"

	"github.com/opd-ai/orion/address"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupMembers() []*Packet {
	a := New([]byte("alpha"), addrA, addrB, 1, 2, 0)
	b := New(nil, addrB, addrA, 3, 4, FlagChecksum)
	b.IncrementAge()
	c := New([]byte("charlie-charlie"), address.Broadcast, addrA, 65535, 65535, FlagSubheader)
	return []*Packet{a, b, c}
}

func concat(ps []*Packet) []byte {
	var out []byte
	for _, p := range ps {
		out = append(out, p.Save()...)
	}
	return out
}

func assertSamePackets(t *testing.T, want, got []*Packet) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "member %d", i)
	}
}

func TestGroupedPacketsIdempotence(t *testing.T) {
	members := groupMembers()
	outer := New(concat(members), addrA, addrB, 9, 9, FlagGroup)

	assertSamePackets(t, members, outer.GroupedPackets())
}

func TestGroupedPacketsTrailingGarbage(t *testing.T) {
	members := groupMembers()
	payload := append(concat(members), 1, 2, 3, 4, 5)
	outer := New(payload, addrA, addrB, 9, 9, FlagGroup)

	assertSamePackets(t, members, outer.GroupedPackets())
}

func TestGroupedPacketsOverrun(t *testing.T) {
	members := groupMembers()
	bogus := make([]byte, HeaderSize+3)
	binary.BigEndian.PutUint16(bogus[14:16], 500)
	payload := append(concat(members[:2]), bogus...)
	payload = append(payload, members[2].Save()...)

	outer := New(payload, addrA, addrB, 9, 9, FlagGroup)
	assertSamePackets(t, members[:2], outer.GroupedPackets())
}

func TestGroupedPacketsWithoutGroupFlag(t *testing.T) {
	outer := New(concat(groupMembers()), addrA, addrB, 9, 9, 0)
	got := outer.GroupedPackets()
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGroupedPacketsEmptyPayload(t *testing.T) {
	outer := New(nil, addrA, addrB, 9, 9, FlagGroup)
	assert.Empty(t, outer.GroupedPackets())
}

func TestGroupedPacketsSurvivesWire(t *testing.T) {
	members := groupMembers()
	outer, err := NewGroup(addrA, address.Broadcast, 1, 65535, members)
	require.NoError(t, err)
	require.True(t, outer.IsGroup())

	received := Load(outer.Save())
	require.False(t, received.IsEmpty())
	assertSamePackets(t, members, received.GroupedPackets())
}

func TestNewGroupTooLarge(t *testing.T) {
	members := groupMembers()
	_, err := NewGroup(addrA, addrB, 1, 2, members, WithMaxLength(20))
	assert.ErrorIs(t, err, ErrGroupTooLarge)
}

func TestNewGroupNoMembers(t *testing.T) {
	outer, err := NewGroup(addrA, addrB, 1, 2, nil)
	require.NoError(t, err)
	assert.Zero(t, outer.Length())
	assert.Empty(t, outer.GroupedPackets())
}

func TestScanRecords(t *testing.T) {
	// one-byte length prefix records: [2 a b][0][3 c d e][9 f]
	buf := []byte{2, 'a', 'b', 0, 3, 'c', 'd', 'e', 9, 'f'}
	got := ScanRecords(buf, 1,
		func(h []byte) int { return int(h[0]) },
		func(rec []byte) string { return string(rec[1:]) },
	)
	assert.Equal(t, []string{"ab", "", "cde"}, got)

	assert.Empty(t, ScanRecords(buf, 0, func([]byte) int { return 0 }, func(r []byte) int { return len(r) }))
	assert.Empty(t, ScanRecords(buf, 1, func([]byte) int { return -1 }, func(r []byte) int { return len(r) }))
}
