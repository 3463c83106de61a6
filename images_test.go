package blogfs

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"net/http"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeedsResize(t *testing.T) {
	tests := []struct {
		name string
		cfg  image.Config
		want bool
	}{
		{"wide", image.Config{Width: 1200, Height: 600}, true},
		{"narrow", image.Config{Width: 800, Height: 600}, false},
		{"at the pixel cap", image.Config{Width: 4096, Height: 10240}, true},
		{"tall and wide", image.Config{Width: 801, Height: 60000}, false},
		{"huge", image.Config{Width: 100000, Height: 100000}, false},
		{"single row", image.Config{Width: 1, Height: 100000}, false},
		{"zero height", image.Config{Width: 2000, Height: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, needsResize(tt.cfg, 800))
		})
	}
}

// pngHeader returns a PNG that declares w x h but carries no pixel data.
// DecodeConfig accepts it; a full decode would have to allocate w*h pixels.
func pngHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // RGBA

	chunk := append([]byte("IHDR"), ihdr...)
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestAssetOversizedImageServedAsIs(t *testing.T) {
	fsys := blogFS(t)
	huge := pngHeader(50000, 50000)
	fsys["hola/enorme.png"] = &fstest.MapFile{Data: huge}
	a := newTestApp(t, testConfig(), fsys)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(huge))
	require.NoError(t, err)
	require.Equal(t, 50000, cfg.Width)

	rec := get(a, "/assets/hola/enorme.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echoContentType))
	assert.Equal(t, huge, rec.Body.Bytes())
}
