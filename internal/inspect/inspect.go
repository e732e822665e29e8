// Package inspect downloads a generated image and summarizes it.
//
// Inspection is optional. It costs a second outbound request per generation,
// so the server only runs it when configured to.
package inspect

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/dalle-image-mcp/internal/log"
)

const (
	// DefaultMaxColors is the palette size reported when MaxColors is unset.
	DefaultMaxColors = 5

	// maxImageBytes caps the download; the largest advertised size is well under it.
	maxImageBytes = 16 << 20

	// sampleWidth is the width images are reduced to before color counting.
	sampleWidth = 64
)

// ColorFrequency is one palette entry.
type ColorFrequency struct {
	Hex        string  `json:"hex"`
	Percentage float64 `json:"percentage"`
}

// Report summarizes a downloaded image.
type Report struct {
	Width    int              `json:"width"`
	Height   int              `json:"height"`
	MimeType string           `json:"mime_type,omitempty"`
	Colors   []ColorFrequency `json:"colors"`
}

// Inspector fetches images over HTTP and builds a Report.
type Inspector struct {
	Client    *http.Client
	MaxColors int
}

// New returns an Inspector using client, or http.DefaultClient when nil.
func New(client *http.Client) *Inspector {
	if client == nil {
		client = http.DefaultClient
	}
	return &Inspector{Client: client, MaxColors: DefaultMaxColors}
}

// Inspect downloads the image at url and reports its dimensions and
// dominant colors.
func (i *Inspector) Inspect(ctx context.Context, url string) (*Report, error) {
	logger := log.FromContextOrDiscard(ctx).With("url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := i.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("download image: unexpected status %s", resp.Status)
	}

	img, err := imaging.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	report := &Report{
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		MimeType: strings.TrimSpace(strings.Split(resp.Header.Get("Content-Type"), ";")[0]),
		Colors:   DominantColors(img, i.maxColors()),
	}
	logger.Debug("image inspected", "width", report.Width, "height", report.Height)

	return report, nil
}

func (i *Inspector) maxColors() int {
	if i.MaxColors <= 0 {
		return DefaultMaxColors
	}
	return i.MaxColors
}

// DominantColors returns up to count of the most common colors in img.
//
// Images wider than 64 pixels are first reduced with a box filter. Each RGB
// component is then quantized to a multiple of 16 so near-identical shades
// are counted together. Ties are broken by hex value so the result is stable.
func DominantColors(img image.Image, count int) []ColorFrequency {
	if img.Bounds().Dx() > sampleWidth {
		img = imaging.Resize(img, sampleWidth, 0, imaging.Box)
	}

	bounds := img.Bounds()
	counts := make(map[string]int)
	total := 0

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			q := color.RGBA{
				R: uint8((r >> 8) / 16 * 16),
				G: uint8((g >> 8) / 16 * 16),
				B: uint8((b >> 8) / 16 * 16),
				A: 255,
			}
			c, _ := colorful.MakeColor(q)
			counts[c.Hex()]++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for hex, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        hex,
			Percentage: float64(n) / float64(total) * 100,
		})
	}

	sort.Slice(colors, func(a, b int) bool {
		if colors[a].Percentage != colors[b].Percentage {
			return colors[a].Percentage > colors[b].Percentage
		}
		return colors[a].Hex < colors[b].Hex
	})

	if len(colors) > count {
		colors = colors[:count]
	}
	return colors
}
