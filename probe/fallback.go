package probe

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// extByMIME is the canonical extension for MIME types the fallback reports.
var extByMIME = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
	"image/avif": "avif",
	"image/heic": "heic",
	"image/heif": "heif",
	"image/bmp":  "bmp",
	"image/tiff": "tiff",
}

// configDecoders read dimensions for the sniffed MIME type. Each is handed
// a *bytes.Reader directly: tiff only bounds its reads by the input size
// when it sees an io.ReaderAt, which image.DecodeConfig would hide behind a
// bufio.Reader.
var configDecoders = map[string]func(io.Reader) (image.Config, error){
	"image/png":  png.DecodeConfig,
	"image/gif":  gif.DecodeConfig,
	"image/jpeg": jpeg.DecodeConfig,
	"image/bmp":  bmp.DecodeConfig,
	"image/tiff": tiff.DecodeConfig,
	"image/webp": webp.DecodeConfig,
}

// ExtFromMIME returns the file extension for an image MIME type, or "" when
// the type is unknown.
func ExtFromMIME(mime string) string {
	if ext, ok := extByMIME[mime]; ok {
		return ext
	}
	if m := mimetype.Lookup(mime); m != nil {
		return strings.TrimPrefix(m.Extension(), ".")
	}
	return ""
}

// probeFallback sniffs the MIME type from magic bytes and reads dimensions
// with that format's config decoder, or from the ISOBMFF "ispe" property
// for AVIF and HEIF.
func probeFallback(data []byte) Result {
	mime := mimetype.Detect(data).String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if !strings.HasPrefix(mime, "image/") {
		return Result{}
	}
	ext := ExtFromMIME(mime)
	if ext == "" {
		return Result{}
	}

	var w, h int
	if decode, ok := configDecoders[mime]; ok {
		if cfg, err := decode(bytes.NewReader(data)); err == nil {
			w, h = cfg.Width, cfg.Height
		}
	} else if iw, ih, ok := ispeDimensions(data); ok {
		w, h = iw, ih
	}

	r, _ := found(w, h, mime, ext)
	return r
}

// ispeDimensions finds the first image spatial extents box and returns its
// width and height. The box is size(4) "ispe" version/flags(4) width(4)
// height(4).
func ispeDimensions(data []byte) (int, int, bool) {
	i := bytes.Index(data, []byte("ispe"))
	if i < 4 || i+16 > len(data) {
		return 0, 0, false
	}
	if binary.BigEndian.Uint32(data[i-4:i]) < 20 {
		return 0, 0, false
	}
	w := binary.BigEndian.Uint32(data[i+8 : i+12])
	h := binary.BigEndian.Uint32(data[i+12 : i+16])
	return int(w), int(h), true
}
