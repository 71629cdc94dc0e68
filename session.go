package skinbrief

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
)

// State is the position of a Session in its edit cycle.
type State int

const (
	StateEmpty State = iota
	StateLoaded
	StateRecolored
	StateExported
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateRecolored:
		return "recolored"
	case StateExported:
		return "exported"
	default:
		return "empty"
	}
}

type StatusKind int

const (
	StatusSuccess StatusKind = iota
	StatusWarning
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusWarning:
		return "warning"
	case StatusError:
		return "error"
	default:
		return "success"
	}
}

func (k StatusKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *StatusKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "success":
		*k = StatusSuccess
	case "warning":
		*k = StatusWarning
	case "error":
		*k = StatusError
	default:
		return fmt.Errorf("skinbrief: unknown status kind %q", b)
	}
	return nil
}

// Status is the transient message shown to the user after a command.
type Status struct {
	Kind    StatusKind `json:"kind"`
	Message string     `json:"message"`
}

// Ticket identifies one upload. Only the most recent ticket may complete.
type Ticket uint64

// Session holds the state of one edit: the originally loaded skin, the
// selected fill and the working image derived from them. It is not safe for
// concurrent use; callers serialize commands.
type Session struct {
	PaletteSize int
	Options     CompositeOptions

	state   State
	skin    *Skin
	current *image.NRGBA
	fill    *FillColor
	palette []PaletteEntry
	latest  Ticket
	consent bool
}

func NewSession() *Session {
	return &Session{PaletteSize: DefaultPaletteSize}
}

func (s *Session) State() State { return s.state }

// Skin returns the skin as it was uploaded, or nil.
func (s *Session) Skin() *Skin { return s.skin }

// Current returns the working image: the uploaded pixels with the selected
// fill applied.
func (s *Session) Current() *image.NRGBA { return s.current }

func (s *Session) Fill() (FillColor, bool) {
	if s.fill == nil {
		return FillColor{}, false
	}
	return *s.fill, true
}

func (s *Session) Palette() []PaletteEntry { return s.palette }

func (s *Session) CanExport() bool { return s.skin != nil }

func (s *Session) Consented() bool { return s.consent }

// AcceptConsent records that the content warning was dismissed.
func (s *Session) AcceptConsent() { s.consent = true }

// LoadUpload validates the content type and decodes the upload.
func LoadUpload(contentType string, data []byte) (*Skin, error) {
	if err := CheckMIME(contentType); err != nil {
		return nil, err
	}
	return DecodeBytes(data)
}

// BeginUpload starts an upload and invalidates every earlier ticket.
func (s *Session) BeginUpload() Ticket {
	s.latest++
	return s.latest
}

// CompleteUpload installs the result of the upload started with t. A ticket
// that is no longer the latest is dropped with ErrSuperseded. A decode error
// leaves the session as it was.
func (s *Session) CompleteUpload(t Ticket, skin *Skin, err error) (Status, error) {
	if t != s.latest {
		return Status{}, ErrSuperseded
	}
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			return Status{Kind: StatusError, Message: "Please select an image file."}, err
		}
		return Status{Kind: StatusError, Message: err.Error()}, err
	}
	if skin == nil {
		return Status{Kind: StatusError, Message: "Please select an image file."}, &DecodeError{Err: errors.New("no image")}
	}

	s.skin = skin
	s.fill = nil
	s.current = cloneNRGBA(skin.Image)
	s.palette = AnalyzePalette(skin.Image, s.paletteSize())
	s.state = StateLoaded

	if skin.Warning != nil {
		return Status{
			Kind: StatusWarning,
			Message: fmt.Sprintf("Incorrect size (%dx%d). Please select a Minecraft skin (64x64 or 64x32).",
				skin.Warning.Width, skin.Warning.Height),
		}, nil
	}
	return Status{Kind: StatusSuccess, Message: "Skin selected and ready for compositing."}, nil
}

// Upload decodes and installs a skin in one step.
func (s *Session) Upload(contentType string, data []byte) (Status, error) {
	t := s.BeginUpload()
	skin, err := LoadUpload(contentType, data)
	return s.CompleteUpload(t, skin, err)
}

// SelectColor recolors the uploaded skin with c. The fill is always applied
// to the uploaded pixels, never on top of an earlier fill.
func (s *Session) SelectColor(c FillColor) (Status, error) {
	if s.skin == nil {
		return Status{Kind: StatusError, Message: "Upload a skin first."}, ErrNoSkin
	}
	s.fill = &c
	s.current = Recolor(s.skin.Image, s.skin.Variant, s.fill)
	s.state = StateRecolored
	return Status{Kind: StatusSuccess, Message: fmt.Sprintf("Body color set to %s.", c.Hex())}, nil
}

// SelectHex parses a manual color code. Malformed input is ignored: the
// previous selection stays and the *InvalidColorInput is returned for the
// caller to discard.
func (s *Session) SelectHex(hex string) (Status, error) {
	c, err := ParseHexColor(hex)
	if err != nil {
		return Status{}, err
	}
	return s.SelectColor(c)
}

// SelectPalette picks entry i of the current palette.
func (s *Session) SelectPalette(i int) (Status, error) {
	if s.skin == nil {
		return Status{Kind: StatusError, Message: "Upload a skin first."}, ErrNoSkin
	}
	if i < 0 || i >= len(s.palette) {
		return Status{Kind: StatusError, Message: "No such palette color."},
			fmt.Errorf("skinbrief: palette index %d out of range [0,%d)", i, len(s.palette))
	}
	return s.SelectColor(s.palette[i].Color)
}

// ClearColor drops the fill and restores the uploaded pixels.
func (s *Session) ClearColor() (Status, error) {
	if s.skin == nil {
		return Status{Kind: StatusError, Message: "Upload a skin first."}, ErrNoSkin
	}
	s.fill = nil
	s.current = cloneNRGBA(s.skin.Image)
	s.state = StateLoaded
	return Status{Kind: StatusSuccess, Message: "Original colors restored."}, nil
}

// Export composites the overlay from src over the working image and writes
// the PNG to w. Nothing is written when the overlay cannot be loaded.
func (s *Session) Export(ctx context.Context, src OverlaySource, w io.Writer) (Status, error) {
	if s.skin == nil {
		return Status{Kind: StatusError, Message: "Upload a skin first."}, ErrNoSkin
	}
	out, err := CompositeFrom(ctx, s.current, src, s.Options)
	if err != nil {
		return Status{Kind: StatusError, Message: err.Error()}, err
	}
	var buf bytes.Buffer
	if err := Export(&buf, out); err != nil {
		return Status{Kind: StatusError, Message: "Could not encode the composited skin."}, err
	}
	if _, err := buf.WriteTo(w); err != nil {
		return Status{Kind: StatusError, Message: "Could not save the composited skin."}, err
	}
	s.state = StateExported
	return Status{Kind: StatusSuccess, Message: "Layers composited!"}, nil
}

func (s *Session) paletteSize() int {
	if s.PaletteSize <= 0 {
		return DefaultPaletteSize
	}
	return s.PaletteSize
}
