package card

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/verte-zerg/typecard/internal/model"
)

// Card dimensions in pixels.
const (
	Width  = 1200
	Height = 630
)

const (
	gradientFrom = "#818cf8"
	gradientTo   = "#c084fc"

	outerPadding = 40.0
	panelPadding = 40.0
	panelRadius  = 24.0
	shadowOffset = 8.0
	textMaxWidth = 600.0
	lineSpacing  = 1.3

	tileGap       = 24.0
	tilePadX      = 32.0
	tilePadY      = 16.0
	tileRadius    = 12.0
	tileInnerGap  = 8.0
	tileLabelSize = 24.0
	tileValueSize = 36.0

	ellipsis = "…"
)

// Renderer draws share cards. It is safe for concurrent use.
type Renderer struct {
	fonts map[FontStyle]*truetype.Font
}

// NewRenderer parses the embedded fonts.
func NewRenderer() (*Renderer, error) {
	sources := map[FontStyle][]byte{
		Regular: goregular.TTF,
		Bold:    gobold.TTF,
		Italic:  goitalic.TTF,
	}
	r := &Renderer{fonts: make(map[FontStyle]*truetype.Font, len(sources))}
	for style, ttf := range sources {
		f, err := truetype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("failed to parse font: %w", err)
		}
		r.fonts[style] = f
	}
	return r, nil
}

// Render draws the card for p.
func (r *Renderer) Render(p model.CardParams) image.Image {
	return r.draw(Build(p)).Image()
}

// WritePNG draws the card for p and encodes it as PNG.
func (r *Renderer) WritePNG(w io.Writer, p model.CardParams) error {
	if err := r.draw(Build(p)).EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode card: %w", err)
	}
	return nil
}

type faceKey struct {
	style FontStyle
	size  float64
}

// canvas is per-render state. Faces cache glyphs and stay local to one draw.
type canvas struct {
	dc    *gg.Context
	fonts map[FontStyle]*truetype.Font
	faces map[faceKey]font.Face
}

type measuredText struct {
	Text
	lines  []string
	width  float64
	height float64
}

type measuredTile struct {
	Tile
	width  float64
	height float64
}

// placement is the resolved geometry of one card.
type placement struct {
	panelX, panelY float64
	panelW, panelH float64
	title          measuredText
	lines          []measuredText
	tiles          []measuredTile
	rowW, rowH     float64
}

func (r *Renderer) newCanvas() *canvas {
	return &canvas{
		dc:    gg.NewContext(Width, Height),
		fonts: r.fonts,
		faces: make(map[faceKey]font.Face),
	}
}

func (r *Renderer) draw(l Layout) *gg.Context {
	c := r.newCanvas()
	c.background()

	p := c.place(l)
	c.panel(p.panelX, p.panelY, p.panelW, p.panelH)

	y := p.panelY + panelPadding
	y = c.drawText(p.title, y)
	for _, m := range p.lines {
		y = c.drawText(m, y+m.MarginTop)
	}
	if len(p.tiles) > 0 {
		c.drawTiles(p.tiles, y+tileGap, p.rowW, p.rowH)
	}
	return c.dc
}

// place measures l and sizes the panel. Tiles share the panel's inner
// width, so oversized values are clipped rather than spilling out.
func (c *canvas) place(l Layout) placement {
	const innerMax = Width - 2*outerPadding - 2*panelPadding

	p := placement{title: c.measureText(l.Title)}
	contentW, contentH := p.title.width, p.title.height

	p.lines = make([]measuredText, 0, len(l.Lines))
	for _, t := range l.Lines {
		m := c.measureText(t)
		p.lines = append(p.lines, m)
		contentW = max(contentW, m.width)
		contentH += m.MarginTop + m.height
	}

	p.tiles = make([]measuredTile, 0, len(l.Tiles))
	if n := len(l.Tiles); n > 0 {
		tileMax := (innerMax - float64(n-1)*tileGap) / float64(n)
		for i, t := range l.Tiles {
			m := c.measureTile(t, tileMax)
			p.tiles = append(p.tiles, m)
			if i > 0 {
				p.rowW += tileGap
			}
			p.rowW += m.width
			p.rowH = max(p.rowH, m.height)
		}
		contentW = max(contentW, p.rowW)
		contentH += tileGap + p.rowH
	}

	p.panelW = min(contentW+2*panelPadding, Width-2*outerPadding)
	p.panelH = min(contentH+2*panelPadding, Height-2*outerPadding)
	p.panelX = (Width - p.panelW) / 2
	p.panelY = (Height - p.panelH) / 2
	return p
}

func (c *canvas) use(style FontStyle, size float64) {
	key := faceKey{style: style, size: size}
	face, ok := c.faces[key]
	if !ok {
		face = truetype.NewFace(c.fonts[style], &truetype.Options{Size: size})
		c.faces[key] = face
	}
	c.dc.SetFontFace(face)
}

func (c *canvas) background() {
	grad := gg.NewLinearGradient(0, 0, Width, Height)
	grad.AddColorStop(0, paint(gradientFrom))
	grad.AddColorStop(1, paint(gradientTo))
	c.dc.SetFillStyle(grad)
	c.dc.DrawRectangle(0, 0, Width, Height)
	c.dc.Fill()
}

func (c *canvas) panel(x, y, w, h float64) {
	c.dc.SetRGBA(0, 0, 0, 0.1)
	c.dc.DrawRoundedRectangle(x, y+shadowOffset, w, h, panelRadius)
	c.dc.Fill()
	c.dc.SetColor(color.White)
	c.dc.DrawRoundedRectangle(x, y, w, h, panelRadius)
	c.dc.Fill()
}

func (c *canvas) measureText(t Text) measuredText {
	c.use(t.Style, t.Size)
	lines := c.dc.WordWrap(t.Value, textMaxWidth)
	var width float64
	for _, line := range lines {
		w, _ := c.dc.MeasureString(line)
		width = max(width, w)
	}
	return measuredText{
		Text:   t,
		lines:  lines,
		width:  width,
		height: float64(len(lines)) * t.Size * lineSpacing,
	}
}

func (c *canvas) measureTile(t Tile, maxW float64) measuredTile {
	textMax := maxW - 2*tilePadX
	c.use(Regular, tileLabelSize)
	t.Label = c.fit(t.Label, textMax)
	lw, _ := c.dc.MeasureString(t.Label)
	c.use(Bold, tileValueSize)
	t.Value = c.fit(t.Value, textMax)
	vw, _ := c.dc.MeasureString(t.Value)
	return measuredTile{
		Tile:   t,
		width:  max(lw, vw) + 2*tilePadX,
		height: 2*tilePadY + tileLabelSize*lineSpacing + tileInnerGap + tileValueSize*lineSpacing,
	}
}

// fit shortens s with a trailing ellipsis until it is at most maxW wide in
// the current face.
func (c *canvas) fit(s string, maxW float64) string {
	if w, _ := c.dc.MeasureString(s); w <= maxW {
		return s
	}
	runes := []rune(s)
	lo, hi := 0, len(runes)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if w, _ := c.dc.MeasureString(string(runes[:mid]) + ellipsis); w <= maxW {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return string(runes[:lo]) + ellipsis
}

// drawText centers each wrapped line horizontally and returns the bottom edge.
func (c *canvas) drawText(m measuredText, top float64) float64 {
	c.use(m.Style, m.Size)
	c.dc.SetColor(paint(m.Color))
	lineH := m.Size * lineSpacing
	for i, line := range m.lines {
		c.dc.DrawStringAnchored(line, Width/2, top+float64(i)*lineH+lineH/2, 0.5, 0.5)
	}
	return top + m.height
}

func (c *canvas) drawTiles(tiles []measuredTile, top, rowW, rowH float64) {
	labelH := tileLabelSize * lineSpacing
	valueH := tileValueSize * lineSpacing
	x := Width/2 - rowW/2
	for _, t := range tiles {
		c.dc.SetColor(paint(t.Background))
		c.dc.DrawRoundedRectangle(x, top, t.width, rowH, tileRadius)
		c.dc.Fill()

		cx := x + t.width/2
		c.use(Regular, tileLabelSize)
		c.dc.SetColor(paint(t.LabelColor))
		c.dc.DrawStringAnchored(t.Label, cx, top+tilePadY+labelH/2, 0.5, 0.5)

		c.use(Bold, tileValueSize)
		c.dc.SetColor(paint(t.ValueColor))
		c.dc.DrawStringAnchored(t.Value, cx, top+tilePadY+labelH+tileInnerGap+valueH/2, 0.5, 0.5)

		x += t.width + tileGap
	}
}

func paint(hex string) color.Color {
	col, err := colorful.Hex(hex)
	if err != nil {
		return color.Black
	}
	return col
}
