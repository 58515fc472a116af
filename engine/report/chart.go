package report

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"

	"github.com/1siamBot/whiteboard/engine/core"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// palette gives every role its own line colour; the roster colours
// repeat between pairs of roles
var palette = [core.RoleCount]color.RGBA{
	core.RoleSetter:   {0xF2, 0xC1, 0x4E, 0xFF},
	core.RoleOutside1: {0x3E, 0x7C, 0xB1, 0xFF},
	core.RoleOutside2: {0x1B, 0x3B, 0x6F, 0xFF},
	core.RoleMiddle1:  {0x81, 0xA4, 0xCD, 0xFF},
	core.RoleMiddle2:  {0x8E, 0x44, 0xAD, 0xFF},
	core.RoleOpposite: {0xDB, 0x54, 0x61, 0xFF},
	core.RoleLibero:   {0x4C, 0xAF, 0x50, 0xFF},
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// SavePlot writes the current speed of every role over time. The image
// format follows the file extension (png, svg, pdf...).
func (p *Profile) SavePlot(path, title string) error {
	if len(p.Roles()) == 0 {
		return fmt.Errorf("report: nothing to plot")
	}

	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = "Time (s)"
	pl.Y.Label.Text = "Speed (court/s)"

	for _, r := range p.Roles() {
		samples := p.Series(r)
		pts := make(plotter.XYs, 0, len(samples))
		for _, s := range samples {
			pts = append(pts, plotter.XY{X: s.T, Y: s.CurrentSpeed})
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("report: %v line: %w", r, err)
		}
		line.Color = palette[r]
		line.Width = vg.Points(1.5)
		pl.Add(line)
		pl.Legend.Add(r.String(), line)
	}
	pl.Legend.Top = true
	pl.Legend.Left = false
	pl.Add(plotter.NewGrid())

	if filepath.Ext(path) == "" {
		return fmt.Errorf("report: %s has no image extension", path)
	}
	if err := pl.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("report: save plot: %w", err)
	}
	return nil
}

// WriteHTML renders an interactive chart of current and target speed per
// role
func (p *Profile) WriteHTML(w io.Writer, title string) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1100px", Height: "560px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("roles=%d", len(p.Roles()))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "t (s)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "speed", NameLocation: "middle", NameGap: 35}),
	)

	for _, r := range p.Roles() {
		samples := p.Series(r)
		cur := make([]opts.LineData, 0, len(samples))
		tgt := make([]opts.LineData, 0, len(samples))
		for _, s := range samples {
			cur = append(cur, opts.LineData{Value: []interface{}{s.T, s.CurrentSpeed}})
			tgt = append(tgt, opts.LineData{Value: []interface{}{s.T, s.TargetSpeed}})
		}
		c := hex(palette[r])
		line.AddSeries(r.String(), cur,
			charts.WithLineStyleOpts(opts.LineStyle{Color: c, Width: 2}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: c}),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		)
		line.AddSeries(r.String()+" target", tgt,
			charts.WithLineStyleOpts(opts.LineStyle{Color: c, Width: 1, Type: "dashed"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: c}),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("report: render chart: %w", err)
	}
	return nil
}
