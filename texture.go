package stage

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	// Costume decoders. png, jpeg and gif come from the standard library;
	// webp and bmp from x/image.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/hajimehoshi/ebiten/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// textureState tracks the decode lifecycle of a costume asset.
type textureState uint8

const (
	texturePending textureState = iota
	textureReady
	textureFailed
)

// Texture is a decoded costume image. Source is kept for alpha sampling;
// the GPU image is created lazily on first draw.
type Texture struct {
	AssetID string
	Source  image.Image
	// Visible is the rectangle of pixels with non-zero alpha, in source
	// pixel coordinates.
	Visible image.Rectangle

	img *ebiten.Image
}

// NewTexture wraps a decoded image.
func NewTexture(assetID string, src image.Image) *Texture {
	return &Texture{AssetID: assetID, Source: src, Visible: VisibleBounds(src)}
}

// Size returns the pixel size of the source image.
func (t *Texture) Size() (w, h float64) {
	b := t.Source.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// AlphaAt returns the 8-bit alpha of the pixel at (px, py), relative to the
// image's top-left. ok is false when the pixel cannot be sampled.
func (t *Texture) AlphaAt(px, py int) (alpha uint8, ok bool) {
	if t == nil || t.Source == nil {
		return 0, false
	}
	b := t.Source.Bounds()
	x, y := b.Min.X+px, b.Min.Y+py
	if x < b.Min.X || y < b.Min.Y || x >= b.Max.X || y >= b.Max.Y {
		return 0, true
	}
	_, _, _, a := t.Source.At(x, y).RGBA()
	return uint8(a >> 8), true
}

// ebitenImage returns the GPU image, creating it on first use.
func (t *Texture) ebitenImage() *ebiten.Image {
	if t.img == nil {
		t.img = ebiten.NewImageFromImage(t.Source)
	}
	return t.img
}

// VisibleBounds returns the bounding rectangle of all pixels with non-zero
// alpha, relative to the image's top-left. A fully transparent image
// returns its full bounds.
func VisibleBounds(img image.Image) image.Rectangle {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a == 0 {
				continue
			}
			minX = min(minX, x)
			minY = min(minY, y)
			maxX = max(maxX, x)
			maxY = max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rect(0, 0, b.Dx(), b.Dy())
	}
	return image.Rect(minX-b.Min.X, minY-b.Min.Y, maxX-b.Min.X+1, maxY-b.Min.Y+1)
}

// AssetSource opens costume assets by id.
type AssetSource interface {
	Open(assetID string) (io.ReadCloser, error)
}

// DirAssets serves assets from files under a directory; the asset id is the
// file path relative to it.
type DirAssets string

// Open implements AssetSource.
func (d DirAssets) Open(assetID string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(string(d), filepath.FromSlash(assetID)))
}

// MapAssets serves already-decoded images, keyed by asset id. Useful for
// generated content and tests.
type MapAssets map[string]image.Image

type decodeResult struct {
	assetID string
	tex     *Texture
	err     error
}

type cacheEntry struct {
	state textureState
	tex   *Texture
}

// TextureCache decodes costume assets off the frame loop. Results are only
// applied from Poll, which runs on the frame loop.
type TextureCache struct {
	source  AssetSource
	entries map[string]*cacheEntry
	results chan decodeResult
	logger  logger
}

// NewTextureCache creates a cache reading from source. A nil source makes
// every non-mapped asset fail, which displays placeholders.
func NewTextureCache(source AssetSource) *TextureCache {
	return &TextureCache{
		source:  source,
		entries: make(map[string]*cacheEntry),
		results: make(chan decodeResult, 16),
		logger:  newLogger(false),
	}
}

// Preload registers decoded images that are available immediately.
func (c *TextureCache) Preload(images MapAssets) {
	for id, img := range images {
		c.entries[id] = &cacheEntry{state: textureReady, tex: NewTexture(id, img)}
	}
}

// Get returns the texture for assetID if it is ready, starting a decode
// when the asset has not been requested before.
func (c *TextureCache) Get(assetID string) (*Texture, textureState) {
	if e, ok := c.entries[assetID]; ok {
		return e.tex, e.state
	}
	c.entries[assetID] = &cacheEntry{state: texturePending}
	if c.source == nil {
		c.entries[assetID].state = textureFailed
		return nil, textureFailed
	}
	go c.decode(assetID)
	return nil, texturePending
}

func (c *TextureCache) decode(assetID string) {
	rc, err := c.source.Open(assetID)
	if err != nil {
		c.results <- decodeResult{assetID: assetID, err: err}
		return
	}
	defer rc.Close()
	img, _, err := image.Decode(rc)
	if err != nil {
		c.results <- decodeResult{assetID: assetID, err: fmt.Errorf("decode %s: %w", assetID, err)}
		return
	}
	c.results <- decodeResult{assetID: assetID, tex: NewTexture(assetID, img)}
}

// Poll drains finished decodes without blocking and returns the asset ids
// that became ready.
func (c *TextureCache) Poll() []string {
	var ready []string
	for {
		select {
		case r := <-c.results:
			e, ok := c.entries[r.assetID]
			if !ok {
				continue
			}
			if r.err != nil {
				e.state = textureFailed
				c.logger.debugf("costume %s: %v", r.assetID, r.err)
				continue
			}
			e.state = textureReady
			e.tex = r.tex
			ready = append(ready, r.assetID)
		default:
			return ready
		}
	}
}
