package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutResolution(t *testing.T) {
	l := NewLayout("Sample",
		F("a", Int32),
		F("b", String).Since(1),
		F("c", Int64).Until(0).Or(int64(7)),
		F("d", ArrayOf(NewLayout("Item",
			F("x", Int8),
			F("y", Int16).Since(2),
		))),
	)

	v0 := l.Schema(0)
	assert.Equal(t, "Sample{a:INT32,c:INT64,d:ARRAY(Item{x:INT8})}", v0.String())
	assert.Same(t, v0, l.Schema(0), "resolving a version twice must return the same schema")

	d, ok := v0.Default("b")
	assert.True(t, ok)
	assert.Equal(t, "", d)
	assert.True(t, v0.Declares("b"))
	assert.False(t, v0.Declares("z"))

	v1 := l.Schema(1)
	assert.Equal(t, "Sample{a:INT32,b:STRING,d:ARRAY(Item{x:INT8})}", v1.String())
	d, ok = v1.Default("c")
	assert.True(t, ok)
	assert.Equal(t, int64(7), d)

	v2 := l.Schema(2)
	assert.Equal(t, "Sample{a:INT32,b:STRING,d:ARRAY(Item{x:INT8,y:INT16})}", v2.String())

	for i, f := range v2.Fields() {
		assert.Equal(t, i, f.Index)
	}
}

func TestLayoutRedeclaredField(t *testing.T) {
	v0, err := RequestSchema(Metadata, 0)
	require.NoError(t, err)
	v1, err := RequestSchema(Metadata, 1)
	require.NoError(t, err)

	f0, ok := v0.Field("topics")
	require.True(t, ok)
	assert.False(t, f0.Type.(*Array).Nullable)

	f1, ok := v1.Field("topics")
	require.True(t, ok)
	assert.True(t, f1.Type.(*Array).Nullable)
	assert.Equal(t, 1, v1.NumFields())
}

func TestNewSchemaRejectsDuplicates(t *testing.T) {
	assert.Panics(t, func() {
		NewSchema("Dup", Field{Name: "a", Type: Int8}, Field{Name: "a", Type: Int16})
	})
}

func TestCatalogCoversVersionRanges(t *testing.T) {
	for k := ApiKey(0); k < numApis; k++ {
		for v := k.MinVersion(); v <= k.MaxVersion(); v++ {
			req, err := RequestSchema(k, v)
			require.NoError(t, err, "%s v%d", k, v)
			assert.NotNil(t, req)

			res, err := ResponseSchema(k, v)
			require.NoError(t, err, "%s v%d", k, v)
			assert.NotNil(t, res)
		}

		_, err := RequestSchema(k, k.MaxVersion()+1)
		assert.ErrorIs(t, err, ErrUnsupportedVersion)

		var uv *UnsupportedVersionError
		require.ErrorAs(t, err, &uv)
		assert.Equal(t, k, uv.ApiKey)
		assert.Equal(t, k.MaxVersion()+1, uv.Version)
	}
}

func TestSchemaRoundTrip(t *testing.T) {
	s, err := RequestSchema(Heartbeat, 0)
	require.NoError(t, err)

	st := NewStruct(s)
	require.NoError(t, st.Set("group_id", "g"))
	require.NoError(t, st.Set("group_generation_id", int32(3)))
	require.NoError(t, st.Set("member_id", "m"))

	b, err := s.Append(nil, st)
	require.NoError(t, err)
	assert.Equal(t, s.SizeOf(st), len(b))
	assert.Equal(t, []byte{0, 1, 'g', 0, 0, 0, 3, 0, 1, 'm'}, b)

	found, err := s.Read(NewSource(b))
	require.NoError(t, err)
	assert.True(t, st.Equal(found))
}

func TestSchemaReadReportsFieldPath(t *testing.T) {
	s, err := ResponseSchema(DescribeGroups, 0)
	require.NoError(t, err)

	// One group whose error code is cut short.
	_, err = s.Read(NewSource([]byte{0, 0, 0, 1, 0}))
	assert.ErrorIs(t, err, ErrTruncated)

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "groups.error_code", de.Field)
}
