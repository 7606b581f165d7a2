package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/fleetfuel/internal/encoding"
)

func TestDecode(t *testing.T) {
	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte("Site;Litres\n"))
	require.NoError(t, err)

	tests := []struct {
		name        string
		input       []byte
		want        string
		wantCharset []string
	}{
		{
			name:        "UTF8Passthrough",
			input:       []byte("Site;Litres\nCafé Services;12,50\n"),
			want:        "Site;Litres\nCafé Services;12,50\n",
			wantCharset: []string{encoding.UTF8},
		},
		{
			name:        "UTF8BOMStripped",
			input:       append([]byte{0xEF, 0xBB, 0xBF}, []byte("Site;Litres\n")...),
			want:        "Site;Litres\n",
			wantCharset: []string{encoding.UTF8},
		},
		{
			// "Garçon Relais;£1.55" in Windows-1252: ç = 0xE7, £ = 0xA3. The
			// Latin charsets chardet may report all decode these bytes alike.
			name:        "Windows1252",
			input:       []byte{'G', 'a', 'r', 0xE7, 'o', 'n', ' ', 'R', 'e', 'l', 'a', 'i', 's', ';', 0xA3, '1', '.', '5', '5', '\n'},
			want:        "Garçon Relais;£1.55\n",
			wantCharset: []string{encoding.Windows1252, encoding.ISO885915, encoding.ISO88599},
		},
		{
			name:        "UTF16LE",
			input:       utf16,
			want:        "Site;Litres\n",
			wantCharset: []string{encoding.UTF16LE},
		},
		{
			name:        "Empty",
			input:       nil,
			want:        "",
			wantCharset: []string{encoding.UTF8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, charset, err := encoding.Decode(bytes.NewReader(tt.input))
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)

			assert.Equal(t, tt.want, string(got))
			assert.Contains(t, tt.wantCharset, charset)
		})
	}
}

func TestNewUTF8Reader(t *testing.T) {
	r, err := encoding.NewUTF8Reader(bytes.NewReader([]byte("Date;Site\n")))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Date;Site\n", string(got))
}
