package headless

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	m "math"

	"golang.org/x/image/vector"

	"github.com/spaghettifunk/depthsort/engine/core"
	"github.com/spaghettifunk/depthsort/engine/math"
	"github.com/spaghettifunk/depthsort/engine/renderer/metadata"
)

const nearPlane float32 = 0.1

/**
 * @brief Composites the recorded draws onto a width x height image in the
 * order they were issued. Every triangle is blended over what is already
 * there, so a wrong draw order shows up as near geometry covered by far
 * geometry.
 *
 * @param fovY Vertical field of view in radians.
 * @param background Colour the image is cleared to.
 */
func (d *Device) Rasterize(width, height int, fovY float32, background color.Color) (*image.RGBA, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("raster size %dx%d: %w", width, height, core.ErrInvalidConfig)
	}
	if fovY <= 0 || fovY >= m.Pi {
		return nil, fmt.Errorf("field of view %v outside (0, pi): %w", fovY, core.ErrInvalidConfig)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	focal := float32(1 / m.Tan(float64(fovY)/2))
	aspect := float32(width) / float32(height)
	w, h := float32(width), float32(height)

	z := vector.NewRasterizer(width, height)
	culled := 0
	for _, call := range d.Draws {
		mv := math.ModelView(call.State.World, call.State.View)
		for _, tri := range call.Triangles {
			var pts [3][2]float32
			visible := true
			for k, v := range tri {
				p := mv.Mul4x1(v.Position.Vec4(1))
				if p.Z() < nearPlane {
					visible = false
					break
				}
				x := p.X() * focal / (aspect * p.Z())
				y := p.Y() * focal / p.Z()
				pts[k] = [2]float32{(x + 1) * 0.5 * w, (1 - y) * 0.5 * h}
			}
			if !visible {
				culled++
				continue
			}

			z.Reset(width, height)
			z.MoveTo(pts[0][0], pts[0][1])
			z.LineTo(pts[1][0], pts[1][1])
			z.LineTo(pts[2][0], pts[2][1])
			z.ClosePath()
			z.Draw(img, img.Bounds(), image.NewUniform(triangleColour(&call.State, &tri[0])), image.Point{})
		}
	}
	if culled > 0 {
		d.logger.Debug("triangles crossing the near plane were not rasterized", "count", culled)
	}
	return img, nil
}

// triangleColour uses the material diffuse colour when a material is bound
// and the vertex colour otherwise.
func triangleColour(state *metadata.RenderState, v *math.Vertex3D) color.NRGBA {
	c := v.Colour
	if state.Material != nil {
		c = state.Material.DiffuseColour
	}
	channel := func(f float32) uint8 {
		return uint8(math.Clamp(f, 0, 1)*255 + 0.5)
	}
	return color.NRGBA{R: channel(c[0]), G: channel(c[1]), B: channel(c[2]), A: channel(c[3])}
}
