package projector

import (
	"fmt"
	"strings"
)

// Sparkline canvas defaults, in device pixels.
const (
	DefaultSparkWidth  = 520
	DefaultSparkHeight = 120
)

// SparkStyle carries the fixed drawing colors.
type SparkStyle struct {
	Background string  `json:"background"`
	Grid       string  `json:"grid"`
	GridLines  int     `json:"gridLines"`
	FillTop    string  `json:"fillTop"`
	FillBottom string  `json:"fillBottom"`
	Stroke     string  `json:"stroke"`
	LineWidth  float64 `json:"lineWidth"`
}

var sparkStyle = SparkStyle{
	Background: "#07142a",
	Grid:       "#13325a",
	GridLines:  10,
	FillTop:    "#2dfcff44",
	FillBottom: "#00ffa922",
	Stroke:     "#68fff4",
	LineWidth:  2.5,
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sparkline is the throughput history drawn into a Width×Height canvas.
// Line and Fill are empty with fewer than two samples.
type Sparkline struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Points []Point    `json:"points,omitempty"`
	Line   string     `json:"line,omitempty"`
	Fill   string     `json:"fill,omitempty"`
	Max    float64    `json:"max"`
	Style  SparkStyle `json:"style"`
}

// BuildSparkline scales history with min 0 and max max(1, max(history)).
func BuildSparkline(history []float64, width, height int) Sparkline {
	sp := Sparkline{Width: width, Height: height, Max: 1, Style: sparkStyle}
	n := len(history)
	if n < 2 || width <= 0 || height <= 0 {
		return sp
	}
	for _, v := range history {
		sp.Max = max(sp.Max, v)
	}
	const lo = 0.0
	w, h := float64(width), float64(height)

	sp.Points = make([]Point, n)
	var line strings.Builder
	for i, v := range history {
		x := float64(i)/float64(n-1)*(w-4) + 2
		y := h - (v-lo)/(sp.Max-lo)*(h-6) - 3
		sp.Points[i] = Point{X: x, Y: y}
		if i == 0 {
			fmt.Fprintf(&line, "M%.2f %.2f", x, y)
		} else {
			fmt.Fprintf(&line, " L%.2f %.2f", x, y)
		}
	}
	sp.Line = line.String()
	sp.Fill = fmt.Sprintf("%s L%.2f %.2f L%.2f %.2f Z", sp.Line, w-2, h-2, 2.0, h-2)
	return sp
}
