// Package raster turns a surface.Scene into pixels with the gg software
// renderer.
//
// Paths are drawn in scene paint order. Layer transforms are applied to
// the path points; stroke widths are not scaled.
package raster

import (
	"errors"
	"image"
	"io"
	"math"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/go-drift/charts/pkg/surface"
)

// ErrEmptyScene is returned for scenes without a drawable area.
var ErrEmptyScene = errors.New("raster: scene has no area")

// Options configures rasterization.
type Options struct {
	// Background fills the image before any path is drawn. Transparent
	// leaves it empty.
	Background surface.Color
}

// Render rasterizes scene into a new image the size of the scene.
func Render(scene *surface.Scene, opts Options) (*image.RGBA, error) {
	dc, err := rasterize(scene, opts)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	img, ok := dc.Image().(*image.RGBA)
	if !ok {
		b := dc.Image().Bounds()
		img = image.NewRGBA(b)
		xdraw.Draw(img, b, dc.Image(), b.Min, xdraw.Src)
	}
	return img, nil
}

// WritePNG rasterizes scene and encodes it to w.
func WritePNG(w io.Writer, scene *surface.Scene, opts Options) error {
	dc, err := rasterize(scene, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}

// Thumbnail scales img down to fit in maxWidth × maxHeight, keeping the
// aspect ratio. Images that already fit are copied unscaled.
func Thumbnail(img image.Image, maxWidth, maxHeight int) *image.RGBA {
	b := img.Bounds()
	scale := math.Min(1, math.Min(float64(maxWidth)/float64(b.Dx()), float64(maxHeight)/float64(b.Dy())))
	w := max(1, int(math.Round(float64(b.Dx())*scale)))
	h := max(1, int(math.Round(float64(b.Dy())*scale)))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

func rasterize(scene *surface.Scene, opts Options) (*gg.Context, error) {
	size := scene.Size()
	w, h := int(math.Ceil(size.Width)), int(math.Ceil(size.Height))
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyScene
	}
	dc := gg.NewContext(w, h)
	if opts.Background.Alpha() > 0 {
		dc.ClearWithColor(rgba(opts.Background))
	}

	var errs []error
	scene.Walk(func(e surface.Element, m surface.Matrix) {
		if p, ok := e.(surface.Path); ok {
			if err := drawPath(dc, p, m); err != nil {
				errs = append(errs, err)
			}
		}
	})
	if err := dc.FlushGPU(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		_ = dc.Close()
		return nil, err
	}
	return dc, nil
}

func drawPath(dc *gg.Context, p surface.Path, m surface.Matrix) error {
	cmds := p.Commands()
	fill, stroke := p.Fill(), p.Stroke()
	if len(cmds) == 0 || (fill.IsNone() && stroke.IsNone()) {
		return nil
	}
	bounds := trace(dc, cmds, m)

	if !fill.IsNone() {
		dc.SetFillBrush(brush(fill, bounds))
		var err error
		if stroke.IsNone() {
			err = dc.Fill()
		} else {
			err = dc.FillPreserve()
		}
		if err != nil {
			return err
		}
	}
	if stroke.IsNone() {
		return nil
	}
	dc.SetStrokeBrush(gg.Solid(rgba(stroke.Color)))
	dc.SetLineWidth(stroke.Thickness)
	dc.SetLineCap(lineCaps[stroke.Cap])
	dc.SetLineJoin(lineJoins[stroke.Join])
	dc.SetDash(stroke.Dash...)
	return dc.Stroke()
}

var lineCaps = map[surface.LineCap]gg.LineCap{
	surface.CapButt:   gg.LineCapButt,
	surface.CapRound:  gg.LineCapRound,
	surface.CapSquare: gg.LineCapSquare,
}

var lineJoins = map[surface.LineJoin]gg.LineJoin{
	surface.JoinMiter: gg.LineJoinMiter,
	surface.JoinRound: gg.LineJoinRound,
	surface.JoinBevel: gg.LineJoinBevel,
}

// trace replays cmds into the current path and returns their transformed
// bounding box.
func trace(dc *gg.Context, cmds []surface.PathCommand, m surface.Matrix) surface.Rect {
	dc.ClearPath()
	b := surface.Rect{Left: math.Inf(1), Top: math.Inf(1), Right: math.Inf(-1), Bottom: math.Inf(-1)}
	for _, c := range cmds {
		if c.Op == surface.PathOpClose {
			dc.ClosePath()
			continue
		}
		x, y := m.Apply(c.X, c.Y)
		b.Left, b.Right = math.Min(b.Left, x), math.Max(b.Right, x)
		b.Top, b.Bottom = math.Min(b.Top, y), math.Max(b.Bottom, y)
		if c.Op == surface.PathOpMoveTo {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	return b
}

func rgba(c surface.Color) gg.RGBA {
	r, g, b, a := c.RGBAF()
	return gg.RGBA{R: r, G: g, B: b, A: a}
}

// brush returns a solid brush, or a linear gradient spanning bounds along
// the fill angle (0 runs left to right, -90 bottom to top).
func brush(f surface.Fill, bounds surface.Rect) gg.Brush {
	if f.Gradient == nil {
		return gg.Solid(rgba(f.Color))
	}
	rad := f.Gradient.Angle * math.Pi / 180
	dx, dy := math.Cos(rad), math.Sin(rad)
	half := (math.Abs(bounds.Width()*dx) + math.Abs(bounds.Height()*dy)) / 2
	c := bounds.Center()
	g := gg.NewLinearGradientBrush(c.X-dx*half, c.Y-dy*half, c.X+dx*half, c.Y+dy*half)
	for _, k := range f.Gradient.Keys {
		g.AddColorStop(k.Offset, rgba(k.Color))
	}
	return g
}
