package textenc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantName  string
		wantError string
	}{
		{name: "default", in: "", wantName: "utf-8"},
		{name: "utf8_upper", in: "UTF-8", wantName: "utf-8"},
		{name: "utf8_alias", in: "utf8", wantName: "utf-8"},
		{name: "latin1", in: "ISO-8859-1", wantName: "ISO-8859-1"},
		{name: "latin1_alias", in: "latin1", wantName: "ISO-8859-1"},
		{name: "unknown", in: "klingon-7", wantError: "looking up encoding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Lookup(tt.in)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, c.Name())
		})
	}
}

func TestCodec_UTF8(t *testing.T) {
	c, err := Lookup("")
	require.NoError(t, err)

	t.Run("plain_round_trip", func(t *testing.T) {
		d, err := c.Decode([]byte("namespace X\n"))
		require.NoError(t, err)
		assert.Equal(t, "namespace X\n", d.Text)

		out, err := c.Encode(d.WithText("namespace Y\n"))
		require.NoError(t, err)
		assert.Equal(t, []byte("namespace Y\n"), out)
	})

	t.Run("bom_preserved", func(t *testing.T) {
		raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("namespace X")...)
		d, err := c.Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, "namespace X", d.Text, "rules should not see the BOM")

		out, err := c.Encode(d.WithText("namespace Y"))
		require.NoError(t, err)
		assert.Equal(t, append([]byte{0xEF, 0xBB, 0xBF}, []byte("namespace Y")...), out)
	})

	t.Run("invalid_bytes", func(t *testing.T) {
		_, err := c.Decode([]byte{0xff, 0xfe, 'a'})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not valid utf-8")
	})
}

func TestCodec_Latin1(t *testing.T) {
	c, err := Lookup("ISO-8859-1")
	require.NoError(t, err)

	// "café" in latin-1
	raw := []byte{'c', 'a', 'f', 0xE9}
	d, err := c.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "café", d.Text)

	out, err := c.Encode(d.WithText("cafés"))
	require.NoError(t, err)
	assert.Equal(t, []byte{'c', 'a', 'f', 0xE9, 's'}, out)

	_, err = c.Encode(d.WithText("日本"))
	require.Error(t, err, "runes outside latin-1 cannot be written")
}
