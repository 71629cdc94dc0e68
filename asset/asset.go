// Package asset provides the clothing overlays composited over skins.
package asset

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"image"
	_ "image/png"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/setanarut/skinbrief"
)

// DefaultName is the file name of the built-in overlay.
const DefaultName = "black_brief.png"

//go:embed black_brief.png
var blackBrief []byte

// Embedded serves the overlay compiled into the binary.
type Embedded struct{}

func (Embedded) Load(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decode(blackBrief)
}

func (Embedded) String() string { return "embedded:" + DefaultName }

// File reads the overlay from disk on every load.
type File struct {
	Path string
}

func (f File) Load(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func (f File) String() string { return f.Path }

// HTTP fetches the overlay from a URL. Each request carries a fresh
// timestamp query parameter so intermediaries never serve a stale copy.
type HTTP struct {
	URL     string
	Timeout time.Duration
	// Now stamps the cache-busting parameter; time.Now when nil.
	Now func() time.Time
}

const DefaultTimeout = 10 * time.Second

func (h HTTP) Load(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, err := h.requestURL()
	if err != nil {
		return nil, err
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(fiber.MethodGet)
	req.SetRequestURI(u)

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if dl, ok := ctx.Deadline(); ok && time.Until(dl) < timeout {
		timeout = time.Until(dl)
	}
	a.Timeout(timeout)

	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return nil, err
	}

	code, body, errs := a.Bytes()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if code != fiber.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", code)
	}
	return decode(body)
}

func (h HTTP) String() string { return h.URL }

func (h HTTP) requestURL() (string, error) {
	u, err := url.Parse(h.URL)
	if err != nil {
		return "", err
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(now().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FromLocation picks a source for loc: the embedded overlay when empty, an
// HTTP source for http(s) URLs and a file otherwise.
func FromLocation(loc string) skinbrief.OverlaySource {
	switch {
	case loc == "":
		return Embedded{}
	case strings.HasPrefix(loc, "http://"), strings.HasPrefix(loc, "https://"):
		return HTTP{URL: loc}
	default:
		return File{Path: loc}
	}
}

func decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode overlay: %w", err)
	}
	return img, nil
}
