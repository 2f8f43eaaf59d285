package macho

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustAbort(t *testing.T, fn func()) *MalformedError {
	t.Helper()
	var err error
	func() {
		defer recoverMalformed(&err)
		fn()
	}()
	var me *MalformedError
	require.True(t, errors.As(err, &me), "expected MalformedError, got %v", err)
	return me
}

func TestViewReadBounds(t *testing.T) {
	t.Parallel()

	v := newView([]byte{0, 1, 2, 3, 4, 5, 6, 7})
	require.Equal(t, []byte{2, 3, 4}, v.read(2, 3))
	require.Empty(t, v.read(8, 0))
	require.Equal(t, 8, cap(v.read(0, 8)), "read must cap the returned slice")

	for _, tc := range []struct{ off, n int }{
		{6, 3},
		{9, 0},
		{-1, 1},
		{0, -1},
		{1, math.MaxInt},
	} {
		me := mustAbort(t, func() { v.read(tc.off, tc.n) })
		require.Equal(t, 8, me.Limit, "read(%d,%d)", tc.off, tc.n)
	}
}

func TestViewSubTracksBase(t *testing.T) {
	t.Parallel()

	v := newView(make([]byte, 32))
	s := v.sub(8, 16).sub(4, 8)
	require.Equal(t, 12, s.base)
	require.Equal(t, 8, s.len())

	me := mustAbort(t, func() { s.read(4, 8) })
	require.Equal(t, 16, me.Offset)
	require.Equal(t, 20, me.Limit)
}

func TestRecoverMalformedRepanicsOthers(t *testing.T) {
	t.Parallel()

	require.PanicsWithValue(t, "boom", func() {
		var err error
		defer recoverMalformed(&err)
		panic("boom")
	})
}

func TestWordOrder(t *testing.T) {
	t.Parallel()

	require.Equal(t, uint32(0x11223344), OrderHost.U32(0x11223344))
	require.Equal(t, uint32(0x44332211), OrderSwapped.U32(0x11223344))

	v := newView([]byte{0xde, 0xad, 0xbe, 0xef})
	require.Equal(t, uint32(0xdeadbeef), v.be32(0))
	require.Equal(t, binary.NativeEndian.Uint32(v.data), v.word(0, OrderHost))
}

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		magic uint32
		kind  Kind
		order WordOrder
	}{
		{MagicThin32, KindThin32, OrderHost},
		{CigamThin32, KindThin32, OrderSwapped},
		{MagicThin64, KindThin64, OrderHost},
		{CigamThin64, KindThin64, OrderSwapped},
		{MagicFat, KindFat32, OrderHost},
		{CigamFat, KindFat32, OrderSwapped},
		{0xcafebabf, KindUnrecognized, OrderHost},
		{0, KindUnrecognized, OrderHost},
	}
	for _, tc := range cases {
		var b [4]byte
		binary.NativeEndian.PutUint32(b[:], tc.magic)
		kind, order, magic := Classify(b[:])
		require.Equal(t, tc.kind, kind, "magic %#x", tc.magic)
		require.Equal(t, tc.order, order, "magic %#x", tc.magic)
		require.Equal(t, tc.magic, magic)
	}

	kind, _, _ := Classify([]byte{0xfe, 0xed})
	require.Equal(t, KindUnrecognized, kind)
	require.Equal(t, "fat-32", KindFat32.String())
	require.Equal(t, "unknown", Kind(42).String())
}
