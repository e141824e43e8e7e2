package export

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/danmuck/captainctl/internal/config"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var ErrGridSize = errors.New("export: values do not fill the grid")

const paletteColors = 255

// viridisControls are anchor colors of the viridis map, in increasing luminance.
var viridisControls = []color.Color{
	color.NRGBA{R: 0x44, G: 0x01, B: 0x54, A: 0xff},
	color.NRGBA{R: 0x3b, G: 0x52, B: 0x8b, A: 0xff},
	color.NRGBA{R: 0x21, G: 0x91, B: 0x8c, A: 0xff},
	color.NRGBA{R: 0x5e, G: 0xc9, B: 0x62, A: 0xff},
	color.NRGBA{R: 0xfd, G: 0xe7, B: 0x25, A: 0xff},
}

// matrixGrid exposes row-major values as plotter.GridXYZ with column c at X=c
// and row r at Y=r.
type matrixGrid struct {
	rows, cols int
	values     []float64
}

func (g matrixGrid) Dims() (c, r int)   { return g.cols, g.rows }
func (g matrixGrid) Z(c, r int) float64 { return g.values[r*g.cols+c] }
func (g matrixGrid) X(c int) float64    { return float64(c) }
func (g matrixGrid) Y(r int) float64    { return float64(r) }

// WriteHeatmap renders values, laid out as grid in row-major order, to a PNG
// with row 0 at the top.
func WriteHeatmap(path, title string, grid config.GridShape, values []float64) error {
	if grid.Rows < 2 || grid.Cols < 2 || len(values) != grid.Cells() {
		return fmt.Errorf("%w: %d values for %dx%d", ErrGridSize, len(values), grid.Rows, grid.Cols)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Longitude (Column Index)"
	p.Y.Label.Text = "Latitude (Row Index)"
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}

	cmap, err := moreland.NewLuminance(viridisControls)
	if err != nil {
		return fmt.Errorf("heatmap palette: %w", err)
	}
	h := plotter.NewHeatMap(matrixGrid{rows: grid.Rows, cols: grid.Cols, values: values}, cmap.Palette(paletteColors))
	if h.Max == h.Min {
		h.Max = h.Min + 1
	}
	p.Add(h)

	if err := p.Save(12*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save heatmap (%s): %w", path, err)
	}
	return nil
}
