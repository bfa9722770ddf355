package probe

import (
	"bytes"
	"encoding/binary"
)

// Result is the outcome of probing an image header. When OK is false every
// other field is its zero value; when OK is true Width and Height are
// positive and MIME and Ext are set.
type Result struct {
	OK     bool   `json:"ok"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	MIME   string `json:"mime,omitempty"`
	Ext    string `json:"ext,omitempty"`
}

var (
	pngSignature = []byte("\x89PNG\r\n\x1a\n")
	gif87a       = []byte("GIF87a")
	gif89a       = []byte("GIF89a")
	jpegSOI      = []byte{0xFF, 0xD8}
)

// sofMarkers are the start-of-frame markers whose segment carries the frame
// dimensions: SOF0-3, SOF5-7, SOF9-11 and SOF13-15.
var sofMarkers = [256]bool{
	0xC0: true, 0xC1: true, 0xC2: true, 0xC3: true,
	0xC5: true, 0xC6: true, 0xC7: true,
	0xC9: true, 0xCA: true, 0xCB: true,
	0xCD: true, 0xCE: true, 0xCF: true,
}

// Probe reads width, height and format from the leading bytes of an image
// without decoding it. PNG, GIF, JPEG and WebP headers are parsed directly,
// in that order; anything else is handed to a generic fallback that covers
// formats such as AVIF, BMP and TIFF.
//
// Probe never modifies data and never fails: unknown or truncated input
// yields a Result with OK set to false.
func Probe(data []byte) Result {
	if len(data) == 0 {
		return Result{}
	}
	if r, ok := probePNG(data); ok {
		return r
	}
	if r, ok := probeGIF(data); ok {
		return r
	}
	if r, ok := probeJPEG(data); ok {
		return r
	}
	if r, ok := probeWebP(data); ok {
		return r
	}
	return probeFallback(data)
}

func found(width, height int, mime, ext string) (Result, bool) {
	if width <= 0 || height <= 0 {
		return Result{}, false
	}
	return Result{OK: true, Width: width, Height: height, MIME: mime, Ext: ext}, true
}

// probePNG reads the IHDR dimensions, which always follow the signature.
func probePNG(data []byte) (Result, bool) {
	if !bytes.HasPrefix(data, pngSignature) || len(data) < 24 {
		return Result{}, false
	}
	w := binary.BigEndian.Uint32(data[16:20])
	h := binary.BigEndian.Uint32(data[20:24])
	return found(int(w), int(h), "image/png", "png")
}

func probeGIF(data []byte) (Result, bool) {
	if !bytes.HasPrefix(data, gif87a) && !bytes.HasPrefix(data, gif89a) {
		return Result{}, false
	}
	if len(data) < 10 {
		return Result{}, false
	}
	w := binary.LittleEndian.Uint16(data[6:8])
	h := binary.LittleEndian.Uint16(data[8:10])
	return found(int(w), int(h), "image/gif", "gif")
}

// probeJPEG walks the marker segments until the first start-of-frame. A
// segment length below 2 or past the end of data ends the walk.
func probeJPEG(data []byte) (Result, bool) {
	if !bytes.HasPrefix(data, jpegSOI) {
		return Result{}, false
	}
	n := len(data)
	pos := 2
	for pos+1 < n {
		if data[pos] != 0xFF {
			pos++
			continue
		}
		for pos < n && data[pos] == 0xFF {
			pos++
		}
		if pos >= n {
			break
		}
		marker := data[pos]
		pos++
		if marker == 0xD8 || marker == 0xD9 {
			continue
		}
		if pos+1 >= n {
			break
		}
		segLen := int(binary.BigEndian.Uint16(data[pos : pos+2]))
		pos += 2
		if segLen < 2 || pos+segLen-2 > n {
			break
		}
		if sofMarkers[marker] {
			if segLen < 7 {
				break
			}
			// precision(1) height(2) width(2)
			h := binary.BigEndian.Uint16(data[pos+1 : pos+3])
			w := binary.BigEndian.Uint16(data[pos+3 : pos+5])
			return found(int(w), int(h), "image/jpeg", "jpg")
		}
		pos += segLen - 2
	}
	return Result{}, false
}

// probeWebP handles the three WebP bitstream flavours inside the RIFF
// container: VP8X (extended), "VP8 " (lossy) and VP8L (lossless).
func probeWebP(data []byte) (Result, bool) {
	if len(data) < 16 || !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WEBP")) {
		return Result{}, false
	}
	switch string(data[12:16]) {
	case "VP8X":
		if len(data) < 30 {
			return Result{}, false
		}
		return found(uint24LE(data[24:27])+1, uint24LE(data[27:30])+1, "image/webp", "webp")
	case "VP8 ":
		if len(data) < 30 {
			return Result{}, false
		}
		w := binary.LittleEndian.Uint16(data[26:28]) & 0x3FFF
		h := binary.LittleEndian.Uint16(data[28:30]) & 0x3FFF
		return found(int(w), int(h), "image/webp", "webp")
	case "VP8L":
		if len(data) < 25 {
			return Result{}, false
		}
		b0, b1, b2, b3 := int(data[21]), int(data[22]), int(data[23]), int(data[24])
		w := 1 + ((b1&0x3F)<<8 | b0)
		h := 1 + ((b3&0x0F)<<10 | b2<<2 | (b1&0xC0)>>6)
		return found(w, h, "image/webp", "webp")
	}
	return Result{}, false
}

func uint24LE(b []byte) int {
	return int(b[0]) | int(b[1])<<8 | int(b[2])<<16
}
