package typst

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/tsawler/officeconv/model"
	"github.com/zeebo/blake3"
)

// assetSet names image assets in first-encounter order and shares one
// asset between images with identical bytes.
type assetSet struct {
	assets []model.ImageAsset
	byHash map[[32]byte]string
	failed map[[32]byte]bool
}

func newAssetSet() *assetSet {
	return &assetSet{
		byHash: make(map[[32]byte]string),
		failed: make(map[[32]byte]bool),
	}
}

// add registers img and returns its virtual path. It reports false for
// images Typst cannot embed: metafiles, unknown data, and raster formats
// that fail to transcode to PNG.
func (a *assetSet) add(img *model.Image) (string, bool) {
	if len(img.Data) == 0 {
		return "", false
	}
	sum := blake3.Sum256(img.Data)
	if path, ok := a.byHash[sum]; ok {
		return path, true
	}
	if a.failed[sum] {
		return "", false
	}

	format := img.Format
	if format == model.ImageFormatUnknown {
		format = model.DetectImageFormat(img.Data)
	}
	data := img.Data
	switch format {
	case model.ImageFormatPNG, model.ImageFormatJPEG, model.ImageFormatGIF, model.ImageFormatSVG:
	case model.ImageFormatBMP, model.ImageFormatTIFF, model.ImageFormatWebP:
		converted, err := toPNG(data)
		if err != nil {
			a.failed[sum] = true
			return "", false
		}
		data, format = converted, model.ImageFormatPNG
	default:
		a.failed[sum] = true
		return "", false
	}

	path := fmt.Sprintf("img-%d.%s", len(a.assets)+1, format.Extension())
	a.assets = append(a.assets, model.ImageAsset{Path: path, Data: data})
	a.byHash[sum] = path
	return path, true
}

func (a *assetSet) list() []model.ImageAsset {
	return a.assets
}

// toPNG re-encodes a raster image the backend cannot read directly.
func toPNG(data []byte) ([]byte, error) {
	m, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, m); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
