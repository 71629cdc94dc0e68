package server

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/setanarut/skinbrief"
	"github.com/setanarut/skinbrief/utils"
)

type paletteColor struct {
	Hex   string  `json:"hex"`
	Count int     `json:"count,omitempty"`
	Share float64 `json:"share,omitempty"`
}

type sessionView struct {
	ID        string            `json:"id"`
	State     string            `json:"state"`
	Consent   bool              `json:"consent"`
	CanExport bool              `json:"canExport"`
	Variant   string            `json:"variant,omitempty"`
	Width     int               `json:"width,omitempty"`
	Height    int               `json:"height,omitempty"`
	Fill      string            `json:"fill,omitempty"`
	Ignored   bool              `json:"ignored,omitempty"`
	Status    *skinbrief.Status `json:"status,omitempty"`
	Palette   []paletteColor    `json:"palette,omitempty"`
}

type paletteResponse struct {
	Method  string                   `json:"method"`
	Colors  []paletteColor           `json:"colors"`
	Summary skinbrief.PaletteSummary `json:"summary"`
}

type colorRequest struct {
	Hex   string `json:"hex"`
	Index *int   `json:"index"`
}

// view snapshots e; the caller holds e.mu.
func (e *entry) view(status *skinbrief.Status) sessionView {
	s := e.session
	v := sessionView{
		ID:        e.id,
		State:     s.State().String(),
		Consent:   s.Consented(),
		CanExport: s.CanExport(),
		Status:    status,
	}
	if skin := s.Skin(); skin != nil {
		size := skin.Image.Bounds().Size()
		v.Variant = skin.Variant.String()
		v.Width, v.Height = size.X, size.Y
	}
	if fill, ok := s.Fill(); ok {
		v.Fill = fill.Hex()
	}
	entries := s.Palette()
	summary := skinbrief.SummarizePalette(entries)
	for i, pe := range entries {
		v.Palette = append(v.Palette, paletteColor{Hex: pe.Color.Hex(), Count: pe.Count, Share: summary.Share[i]})
	}
	return v
}

func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.SendString("ok")
}

func (h *Handler) CreateSession(c *fiber.Ctx) error {
	e := h.newEntry()
	h.Logger.Info("%s POST /sessions -> %s", c.IP(), e.id)

	e.mu.Lock()
	defer e.mu.Unlock()
	return c.Status(fiber.StatusCreated).JSON(e.view(nil))
}

func (h *Handler) GetSession(c *fiber.Ctx) error {
	e, err := h.lookup(c)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return c.JSON(e.view(nil))
}

func (h *Handler) PostConsent(c *fiber.Ctx) error {
	e, err := h.lookup(c)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.AcceptConsent()
	return c.JSON(e.view(nil))
}

// PostSkin accepts the skin either as multipart field "skin" or as the raw
// request body. A second upload started while the first is still decoding
// wins; the first one is answered with 409.
func (h *Handler) PostSkin(c *fiber.Ctx) error {
	e, err := h.lookup(c)
	if err != nil {
		return err
	}
	h.Logger.Info("%s POST /sessions/%s/skin", c.IP(), e.id)

	if !e.uploads.Allow() {
		return fiber.NewError(fiber.StatusTooManyRequests, "too many uploads, slow down")
	}

	contentType, data, err := readUpload(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	e.mu.Lock()
	ticket := e.session.BeginUpload()
	e.mu.Unlock()

	skin, decodeErr := skinbrief.LoadUpload(contentType, data)

	e.mu.Lock()
	defer e.mu.Unlock()
	status, err := e.session.CompleteUpload(ticket, skin, decodeErr)

	var de *skinbrief.DecodeError
	switch {
	case errors.Is(err, skinbrief.ErrSuperseded):
		h.Logger.Info("[%s] upload %d superseded", e.id, ticket)
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.As(err, &de):
		h.Logger.Warn("[%s] rejected upload: %v", e.id, err)
		v := e.view(&status)
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(v)
	case err != nil:
		h.Logger.Error("[%s] upload failed: %v", e.id, err)
		return err
	}

	if skin.Warning != nil {
		h.Logger.Warn("[%s] %v", e.id, skin.Warning)
	}
	return c.JSON(e.view(&status))
}

func readUpload(c *fiber.Ctx) (string, []byte, error) {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		fh, err := c.FormFile("skin")
		if err != nil {
			return "", nil, err
		}
		f, err := fh.Open()
		if err != nil {
			return "", nil, err
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return "", nil, err
		}
		return sniff(fh.Header.Get(fiber.HeaderContentType), data), data, nil
	}
	data := bytes.Clone(c.Body())
	return sniff(c.Get(fiber.HeaderContentType), data), data, nil
}

// sniff fills in a content type for clients that send none or a generic one.
func sniff(contentType string, data []byte) string {
	if contentType == "" || strings.HasPrefix(contentType, fiber.MIMEOctetStream) {
		return http.DetectContentType(data)
	}
	return contentType
}

// GetPalette suggests fill colors. ?k= sets the count, ?method= picks
// frequency (default), dominantcolor or kmeans.
func (h *Handler) GetPalette(c *fiber.Ctx) error {
	e, err := h.lookup(c)
	if err != nil {
		return err
	}
	method, err := utils.ParsePaletteMethod(c.Query("method"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	k := e.session.PaletteSize
	if q := c.Query("k"); q != "" {
		k, err = strconv.Atoi(q)
		if err != nil || k <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "bad k: "+q)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	skin := e.session.Skin()
	if skin == nil {
		return fiber.NewError(fiber.StatusConflict, skinbrief.ErrNoSkin.Error())
	}

	resp := paletteResponse{Method: method.String()}
	if method == utils.PaletteMethodFrequency {
		entries := skinbrief.AnalyzePalette(skin.Image, k)
		resp.Summary = skinbrief.SummarizePalette(entries)
		for i, pe := range entries {
			resp.Colors = append(resp.Colors, paletteColor{Hex: pe.Color.Hex(), Count: pe.Count, Share: resp.Summary.Share[i]})
		}
		return c.JSON(resp)
	}
	for _, col := range utils.ExtractPalette(skin.Image, k, method) {
		resp.Colors = append(resp.Colors, paletteColor{Hex: col.Hex()})
	}
	return c.JSON(resp)
}

// PutColor selects a fill by hex code or palette index. A malformed hex code
// is ignored and the previous fill kept.
func (h *Handler) PutColor(c *fiber.Ctx) error {
	e, err := h.lookup(c)
	if err != nil {
		return err
	}
	req := new(colorRequest)
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "bad color body")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var status skinbrief.Status
	if req.Index != nil {
		status, err = e.session.SelectPalette(*req.Index)
	} else {
		status, err = e.session.SelectHex(req.Hex)
	}

	var invalid *skinbrief.InvalidColorInput
	switch {
	case errors.As(err, &invalid):
		v := e.view(nil)
		v.Ignored = true
		return c.JSON(v)
	case errors.Is(err, skinbrief.ErrNoSkin):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case err != nil:
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(e.view(&status))
}

func (h *Handler) DeleteColor(c *fiber.Ctx) error {
	e, err := h.lookup(c)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	status, err := e.session.ClearColor()
	if err != nil {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return c.JSON(e.view(&status))
}

// GetPreview returns the working image without the overlay.
func (h *Handler) GetPreview(c *fiber.Ctx) error {
	e, err := h.lookup(c)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	cur := e.session.Current()
	if cur == nil {
		return fiber.NewError(fiber.StatusConflict, skinbrief.ErrNoSkin.Error())
	}
	var buf bytes.Buffer
	if err := skinbrief.Export(&buf, cur); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, skinbrief.ContentType)
	return c.Send(buf.Bytes())
}

// GetExport composites the overlay and sends composited_skin.png.
func (h *Handler) GetExport(c *fiber.Ctx) error {
	e, err := h.lookup(c)
	if err != nil {
		return err
	}
	h.Logger.Info("%s GET /sessions/%s/export", c.IP(), e.id)

	e.mu.Lock()
	defer e.mu.Unlock()

	var buf bytes.Buffer
	_, err = e.session.Export(c.UserContext(), h.Overlay, &buf)

	var ale *skinbrief.AssetLoadError
	switch {
	case errors.Is(err, skinbrief.ErrNoSkin):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.As(err, &ale):
		h.Logger.Error("[%s] %v", e.id, err)
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	case err != nil:
		h.Logger.Error("[%s] export failed: %v", e.id, err)
		return err
	}

	c.Attachment(skinbrief.DefaultFilename)
	c.Set(fiber.HeaderContentType, skinbrief.ContentType)
	return c.Send(buf.Bytes())
}
