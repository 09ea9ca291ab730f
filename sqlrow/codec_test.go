package sqlrow

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip[T any](t *testing.T, c Codec[T], v T) T {
	t.Helper()

	stored, err := c.Bind(v)
	require.NoError(t, err)

	got, err := c.Extract(stored)
	require.NoError(t, err)

	return got
}

func TestCodecRoundTrip(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		for _, v := range []string{"", "alice", "ünïcödé", "with\x00nul"} {
			assert.Equal(t, v, roundTrip(t, Text, v))
		}
	})

	t.Run("int64", func(t *testing.T) {
		for _, v := range []int64{0, 1, -1, math.MaxInt64, math.MinInt64} {
			assert.Equal(t, v, roundTrip(t, Int64, v))
		}
	})

	t.Run("int", func(t *testing.T) {
		for _, v := range []int{0, 42, -42, math.MaxInt, math.MinInt} {
			assert.Equal(t, v, roundTrip(t, Int, v))
		}
	})

	t.Run("small ints", func(t *testing.T) {
		assert.Equal(t, int32(math.MinInt32), roundTrip(t, Int32, math.MinInt32))
		assert.Equal(t, int16(math.MaxInt16), roundTrip(t, Int16, math.MaxInt16))
		assert.Equal(t, int8(-128), roundTrip(t, Int8, -128))
		assert.Equal(t, uint32(math.MaxUint32), roundTrip(t, Uint32, math.MaxUint32))
		assert.Equal(t, uint16(7), roundTrip(t, Uint16, 7))
		assert.Equal(t, uint8(255), roundTrip(t, Uint8, 255))
	})

	t.Run("unsigned", func(t *testing.T) {
		assert.Equal(t, uint64(math.MaxInt64), roundTrip(t, Uint64, math.MaxInt64))
		assert.Equal(t, uint(12), roundTrip(t, Uint, 12))
	})

	t.Run("float", func(t *testing.T) {
		for _, v := range []float64{0, -1.5, math.Pi, math.MaxFloat64, math.SmallestNonzeroFloat64} {
			assert.Equal(t, v, roundTrip(t, Float64, v))
		}
		assert.Equal(t, float32(2.5), roundTrip(t, Float32, 2.5))
	})

	t.Run("bool", func(t *testing.T) {
		assert.True(t, roundTrip(t, Bool, true))
		assert.False(t, roundTrip(t, Bool, false))
	})

	t.Run("blob", func(t *testing.T) {
		assert.Equal(t, []byte{0, 1, 2, 0xff}, roundTrip(t, Blob, []byte{0, 1, 2, 0xff}))
	})

	t.Run("time", func(t *testing.T) {
		loc := time.FixedZone("x", 3*3600)
		v := time.Date(2024, 2, 29, 23, 59, 58, 123456789, loc)
		got := roundTrip(t, Time, v)
		assert.True(t, v.Equal(got), "got %v", got)
	})

	t.Run("nullable", func(t *testing.T) {
		c := Nullable(Int64)
		assert.Nil(t, roundTrip(t, c, nil))

		n := int64(9)
		got := roundTrip(t, c, &n)
		require.NotNil(t, got)
		assert.Equal(t, n, *got)
	})

	t.Run("sql null types", func(t *testing.T) {
		assert.Equal(t, sql.NullString{}, roundTrip(t, NullString, sql.NullString{}))
		assert.Equal(t, sql.NullString{String: "x", Valid: true}, roundTrip(t, NullString, sql.NullString{String: "x", Valid: true}))
		assert.Equal(t, sql.NullInt64{Int64: -3, Valid: true}, roundTrip(t, NullInt64, sql.NullInt64{Int64: -3, Valid: true}))
		assert.Equal(t, sql.NullBool{Bool: true, Valid: true}, roundTrip(t, NullBool, sql.NullBool{Bool: true, Valid: true}))
		assert.Equal(t, sql.NullFloat64{}, roundTrip(t, NullFloat64, sql.NullFloat64{}))
	})
}

func TestCodecExtractLenient(t *testing.T) {
	s, err := Text.Extract([]byte("bytes"))
	require.NoError(t, err)
	assert.Equal(t, "bytes", s)

	n, err := Int64.Extract("17")
	require.NoError(t, err)
	assert.Equal(t, int64(17), n)

	b, err := Bool.Extract(true)
	require.NoError(t, err)
	assert.True(t, b)

	ts, err := Time.Extract(int64(0))
	require.NoError(t, err)
	assert.True(t, ts.Equal(time.Unix(0, 0)))

	ts, err = Time.Extract("2024-01-02 03:04:05")
	require.NoError(t, err)
	assert.Equal(t, 2024, ts.Year())
}

func TestCodecExtractRejects(t *testing.T) {
	tests := []struct {
		name string
		fn   func() error
	}{
		{"text from int", func() error { _, err := Text.Extract(int64(1)); return err }},
		{"int from garbage", func() error { _, err := Int64.Extract("abc"); return err }},
		{"int from fraction", func() error { _, err := Int64.Extract(1.5); return err }},
		{"int8 overflow", func() error { _, err := Int8.Extract(int64(128)); return err }},
		{"uint negative", func() error { _, err := Uint64.Extract(int64(-1)); return err }},
		{"uint16 overflow", func() error { _, err := Uint16.Extract(int64(70000)); return err }},
		{"float from bool", func() error { _, err := Float64.Extract(true); return err }},
		{"time from garbage", func() error { _, err := Time.Extract("yesterday"); return err }},
		{"blob from int", func() error { _, err := Blob.Extract(int64(3)); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.fn())
		})
	}
}

func TestUnsignedBindOverflow(t *testing.T) {
	_, err := Uint64.Bind(math.MaxUint64)
	require.Error(t, err)

	_, err = Uint64.Bind(math.MaxInt64)
	require.NoError(t, err)
}

func TestBlobExtractCopies(t *testing.T) {
	src := []byte("abc")
	got, err := Blob.Extract(src)
	require.NoError(t, err)

	src[0] = 'x'
	assert.Equal(t, []byte("abc"), got)
}

type path string

func TestConvertAndOverrides(t *testing.T) {
	c := TextOf[path]()
	assert.Equal(t, path("/home/a"), roundTrip(t, c, "/home/a"))
	assert.Equal(t, AffinityText, c.Affinity)

	type level uint8
	lc := IntOf[level]()
	assert.Equal(t, level(200), roundTrip(t, lc, 200))
	_, err := lc.Extract(int64(256))
	assert.Error(t, err)
	_, err = lc.Extract(int64(-1))
	assert.Error(t, err)

	type big uint64
	_, err = IntOf[big]().Bind(big(1 << 63))
	assert.Error(t, err)

	type ratio float32
	assert.Equal(t, ratio(0.5), roundTrip(t, FloatOf[ratio](), 0.5))

	type flag bool
	assert.Equal(t, flag(true), roundTrip(t, BoolOf[flag](), true))

	type raw []byte
	assert.Equal(t, raw("x"), roundTrip(t, BlobOf[raw](), raw("x")))

	errNope := errors.New("nope")
	strict := Text.WithExtract(func(src any) (string, error) {
		s, ok := src.(string)
		if !ok {
			return "", errNope
		}
		return s, nil
	})

	_, err = strict.Extract([]byte("x"))
	assert.ErrorIs(t, err, errNope)

	upper := Custom(
		func(v string) (driver.Value, error) { return v + "!", nil },
		Text.Extract,
	)
	stored, err := upper.Bind("hi")
	require.NoError(t, err)
	assert.Equal(t, "hi!", stored)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	c, ok := r.Lookup(reflect.TypeFor[int64]())
	require.True(t, ok)
	assert.Equal(t, AffinityInteger, c.Affinity)

	v, err := c.Bind(int64(5))
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)

	_, err = c.Bind("five")
	assert.Error(t, err)

	_, ok = r.Lookup(reflect.TypeFor[path]())
	assert.False(t, ok)
	assert.Equal(t, AffinityAny, r.Affinity(reflect.TypeFor[path]()))

	Register(r, TextOf[path]())
	assert.Equal(t, AffinityText, r.Affinity(reflect.TypeFor[path]()))
}
