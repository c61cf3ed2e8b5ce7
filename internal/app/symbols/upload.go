package symbols

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // registers GIF decoding
	_ "image/jpeg" // registers JPEG decoding
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/draw"

	"github.com/jsamuelsen/pictoboard/internal/domain"
)

// UploadMaxEdge is the largest width or height an uploaded symbol keeps.
const UploadMaxEdge = 96

// maxUploadBytes bounds how much of an upload is read.
const maxUploadBytes = 8 << 20

// Limits on the declared size of an upload, checked before any pixel is decoded.
const (
	maxUploadEdge   = 8192
	maxUploadPixels = 40_000_000
)

const dataURLPrefix = "data:"

// FromImage decodes a PNG, JPEG or GIF image, scales it down so that
// neither edge exceeds UploadMaxEdge (keeping the aspect ratio) and returns
// it as an upload record holding a PNG data URL.
func FromImage(r io.Reader) (domain.SymbolRecord, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxUploadBytes))
	if err != nil {
		return domain.SymbolRecord{}, fmt.Errorf("reading image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return domain.SymbolRecord{}, domain.NewValidationError("image", "unsupported or corrupt image")
	}

	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > maxUploadEdge || cfg.Height > maxUploadEdge ||
		cfg.Width*cfg.Height > maxUploadPixels {
		return domain.SymbolRecord{}, domain.NewValidationErrorWithValue("image",
			fmt.Sprintf("dimensions must be at most %dx%d pixels", maxUploadEdge, maxUploadEdge),
			fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return domain.SymbolRecord{}, domain.NewValidationError("image", "unsupported or corrupt image")
	}

	dst := scaleToFit(src, UploadMaxEdge)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return domain.SymbolRecord{}, fmt.Errorf("encoding png: %w", err)
	}

	return domain.SymbolRecord{
		DataURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// FromDataURL decodes a base64 image data URL and processes it like FromImage.
func FromDataURL(dataURL string) (domain.SymbolRecord, error) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(header, dataURLPrefix) || !strings.HasSuffix(header, ";base64") {
		return domain.SymbolRecord{}, domain.NewValidationError("dataUrl", "must be a base64 image data URL")
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return domain.SymbolRecord{}, domain.NewValidationError("dataUrl", "invalid base64 payload")
	}

	return FromImage(bytes.NewReader(raw))
}

// scaleToFit returns src unchanged when it already fits within edge,
// otherwise a Catmull-Rom scaled copy whose longer side equals edge.
func scaleToFit(src image.Image, edge int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	if w <= edge && h <= edge {
		return src
	}

	if w >= h {
		h = max(1, h*edge/w)
		w = edge
	} else {
		w = max(1, w*edge/h)
		h = edge
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	return dst
}
