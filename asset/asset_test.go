package asset

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestEmbeddedOverlay(t *testing.T) {
	img, err := Embedded{}.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Errorf("Expected 64x64 overlay, got %v", img.Bounds())
	}
	// the head band of the overlay is transparent
	for x := range 64 {
		if _, _, _, a := img.At(x, 8).RGBA(); a != 0 {
			t.Fatalf("Expected transparent head band at x=%d", x)
		}
	}
	if _, _, _, a := img.At(0, 20).RGBA(); a != 0xffff {
		t.Error("Expected opaque brief pixel at (0,20)")
	}
}

func TestFileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultName)
	if err := os.WriteFile(path, blackBrief, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := (File{Path: path}).Load(context.Background()); err != nil {
		t.Errorf("Expected overlay to load, got %v", err)
	}
	if _, err := (File{Path: filepath.Join(dir, "missing.png")}).Load(context.Background()); err == nil {
		t.Error("Expected error for missing overlay")
	}

	garbage := filepath.Join(dir, "garbage.png")
	os.WriteFile(garbage, []byte("not a png"), 0o644)
	if _, err := (File{Path: garbage}).Load(context.Background()); err == nil {
		t.Error("Expected error for undecodable overlay")
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Embedded{}).Load(ctx); err == nil {
		t.Error("Expected error for canceled context")
	}
}

// serveAssets starts a fiber app on a loopback port that serves the built-in
// overlay at /assets/black_brief.png and records the query strings it sees.
func serveAssets(t *testing.T) (string, *[]string) {
	t.Helper()
	var queries []string

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/assets/"+DefaultName, func(c *fiber.Ctx) error {
		queries = append(queries, string(c.Request().URI().QueryString()))
		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(blackBrief)
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go app.Listener(ln)
	t.Cleanup(func() { app.Shutdown() })

	return "http://" + ln.Addr().String(), &queries
}

func TestHTTPOverlay(t *testing.T) {
	base, queries := serveAssets(t)
	stamp := time.UnixMilli(1700000000123)

	src := HTTP{URL: base + "/assets/" + DefaultName, Now: func() time.Time { return stamp }}
	img, err := src.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 64 {
		t.Errorf("Expected 64 wide overlay, got %d", img.Bounds().Dx())
	}
	if len(*queries) != 1 || (*queries)[0] != "t=1700000000123" {
		t.Errorf("Expected cache-busting query t=1700000000123, got %v", *queries)
	}
}

func TestHTTPOverlayNotFound(t *testing.T) {
	base, _ := serveAssets(t)

	_, err := HTTP{URL: base + "/assets/missing.png", Timeout: 2 * time.Second}.Load(context.Background())
	if err == nil {
		t.Fatal("Expected error for 404 overlay")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("Expected status in error, got %v", err)
	}
}

func TestRequestURLKeepsQuery(t *testing.T) {
	src := HTTP{URL: "https://example.com/a.png?v=2", Now: func() time.Time { return time.UnixMilli(5) }}
	u, err := src.requestURL()
	if err != nil {
		t.Fatal(err)
	}
	if u != "https://example.com/a.png?t=5&v=2" {
		t.Errorf("Unexpected url %s", u)
	}
}

func TestFromLocation(t *testing.T) {
	tests := []struct {
		loc      string
		expected string
	}{
		{"", "asset.Embedded"},
		{"https://example.com/black_brief.png", "asset.HTTP"},
		{"http://localhost/black_brief.png", "asset.HTTP"},
		{"assets/black_brief.png", "asset.File"},
	}

	for _, test := range tests {
		var got string
		switch FromLocation(test.loc).(type) {
		case Embedded:
			got = "asset.Embedded"
		case HTTP:
			got = "asset.HTTP"
		case File:
			got = "asset.File"
		}
		if got != test.expected {
			t.Errorf("FromLocation(%q) = %s, expected %s", test.loc, got, test.expected)
		}
	}
}
