// Package export renders transient results to CSV and to image files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/ohmlab/nodal/pkg/transient"
)

// WriteCSV writes the time axis and every node-voltage series, one row
// per step, nodes in their deterministic order.
func WriteCSV(w io.Writer, res *transient.Result) error {
	cw := csv.NewWriter(w)

	header := append([]string{"time"}, res.Nodes...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	row := make([]string, len(header))
	for k, t := range res.Times {
		row[0] = strconv.FormatFloat(t, 'g', -1, 64)
		for i, node := range res.Nodes {
			row[i+1] = strconv.FormatFloat(res.NodeVoltages[node][k], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// SavePlot renders the named node-voltage series to an image file; the
// format follows the file extension (.png, .svg, .pdf). An empty node
// list plots every node.
func SavePlot(path, title string, res *transient.Result, nodes []string) error {
	if len(nodes) == 0 {
		nodes = res.Nodes
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = "V"

	args := make([]interface{}, 0, 2*len(nodes))
	for _, node := range nodes {
		series, ok := res.NodeVoltages[node]
		if !ok {
			return fmt.Errorf("export: unknown node %q", node)
		}
		xys := make(plotter.XYs, len(series))
		for k := range series {
			xys[k].X = res.Times[k]
			xys[k].Y = series[k]
		}
		args = append(args, node, xys)
	}
	if err := plotutil.AddLinePoints(p, args...); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
