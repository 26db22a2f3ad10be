// Package projector turns a scene snapshot into the values a renderer and side
// panel display. It never mutates the scene.
package projector

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/hvactwin/internal/core/geom"
	"github.com/zeusync/hvactwin/internal/core/models"
	"github.com/zeusync/hvactwin/internal/core/scene"
	"github.com/zeusync/hvactwin/pkg/generic"
)

var digests = generic.NewPool(xxhash.New, (*xxhash.Digest).Reset)

// Panel placeholders shown while nothing is selected.
const (
	Placeholder      = "–"
	PlaceholderTitle = "Tap an object"
)

const (
	assetLabelLift = 1.8
	pipeLabelLift  = 0.5
)

// Panel holds the side panel fields.
type Panel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	Temperature string `json:"temperature"`
	Load        string `json:"load"`
}

// EmptyPanel is the panel with no selection.
var EmptyPanel = Panel{
	ID:          Placeholder,
	Name:        PlaceholderTitle,
	Status:      Placeholder,
	Temperature: Placeholder,
	Load:        Placeholder,
}

// Label is an overlay anchored to a world point.
type Label struct {
	Text    string    `json:"text"`
	Class   string    `json:"class"`
	Anchor  geom.Vec3 `json:"anchor"`
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
	Visible bool      `json:"visible"`
}

type AssetView struct {
	Key      models.AssetKey `json:"key"`
	Name     string          `json:"name"`
	Status   models.Status   `json:"status"`
	Selected bool            `json:"selected"`
	Material Material        `json:"material"`
	Label    Label           `json:"label"`
}

type PipeView struct {
	ID     models.PipeID   `json:"id"`
	Kind   models.PipeKind `json:"kind"`
	Radius float64         `json:"radius"`
	Label  Label           `json:"label"`
}

type ParticleView struct {
	Pipe     models.PipeID `json:"pipe"`
	Position geom.Vec3     `json:"position"`
	Color    string        `json:"color"`
}

// Uniforms feed the animated pipe shader.
type Uniforms struct {
	Time  float64 `json:"time"`
	Speed float64 `json:"speed"`
}

type CameraView struct {
	Position geom.Vec3 `json:"position"`
	Target   geom.Vec3 `json:"target"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	Aspect   float64   `json:"aspect"`
}

// ViewState is everything the host renders for one frame.
type ViewState struct {
	Assets          []AssetView      `json:"assets"`
	Pipes           []PipeView       `json:"pipes"`
	Particles       []ParticleView   `json:"particles"`
	Panel           Panel            `json:"panel"`
	Selected        *models.AssetKey `json:"selected,omitempty"`
	Sparkline       Sparkline        `json:"sparkline"`
	Throughput      string           `json:"throughput"`
	Uniforms        Uniforms         `json:"uniforms"`
	Flow            scene.FlowLevel  `json:"flow"`
	Theme           scene.Theme      `json:"theme"`
	AutoRotateLabel string           `json:"autoRotateLabel"`
	Camera          CameraView       `json:"camera"`
	ModelPath       string           `json:"modelPath,omitempty"`
	Tick            uint64           `json:"tick"`
	Fingerprint     uint64           `json:"fingerprint"`
}

// Projector holds only the sparkline canvas size; Project is otherwise pure.
type Projector struct {
	mu          sync.RWMutex
	sparkWidth  int
	sparkHeight int
}

func New() *Projector {
	return &Projector{sparkWidth: DefaultSparkWidth, sparkHeight: DefaultSparkHeight}
}

// ResizeSparkline sets the sparkline canvas size. Non-positive sizes are ignored.
func (p *Projector) ResizeSparkline(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	p.mu.Lock()
	p.sparkWidth, p.sparkHeight = width, height
	p.mu.Unlock()
}

func (p *Projector) SparklineSize() (int, int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sparkWidth, p.sparkHeight
}

// Project computes the view for snap.
func (p *Projector) Project(snap scene.Snapshot) ViewState {
	w, h := p.SparklineSize()
	v := ViewState{
		Assets:          make([]AssetView, len(snap.Assets)),
		Pipes:           make([]PipeView, len(snap.Pipes)),
		Particles:       make([]ParticleView, len(snap.Particles)),
		Panel:           EmptyPanel,
		Selected:        snap.Selected,
		Sparkline:       BuildSparkline(snap.History, w, h),
		Throughput:      FormatThroughput(snap.Throughput, snap.Sampled),
		Uniforms:        Uniforms{Time: snap.ShaderTime, Speed: snap.Flow.Speed()},
		Flow:            snap.Flow,
		Theme:           snap.Theme,
		AutoRotateLabel: AutoRotateLabel(snap.Camera.AutoRotate),
		Camera: CameraView{
			Position: snap.Camera.Position,
			Target:   snap.Camera.Target,
			Width:    snap.Camera.Width,
			Height:   snap.Camera.Height,
			Aspect:   snap.Camera.Aspect,
		},
		ModelPath: snap.ModelPath,
		Tick:      snap.Ticks,
	}

	for i, a := range snap.Assets {
		anchor := a.Position.Add(geom.V3(0, assetLabelLift, 0))
		label := Label{Text: LabelText(a), Class: LabelClass(a.Status), Anchor: anchor}
		label.X, label.Y, label.Visible = snap.Camera.Project(anchor)
		v.Assets[i] = AssetView{
			Key:      a.Key,
			Name:     a.Name,
			Status:   a.Status,
			Selected: snap.Selected != nil && *snap.Selected == a.Key,
			Material: MaterialFor(a.Key.Type, a.Status),
			Label:    label,
		}
	}
	for i, pipe := range snap.Pipes {
		anchor := pipe.Midpoint.Add(geom.V3(0, pipeLabelLift, 0))
		label := Label{Text: pipe.Label, Class: "label pipe-label", Anchor: anchor}
		label.X, label.Y, label.Visible = snap.Camera.Project(anchor)
		v.Pipes[i] = PipeView{ID: pipe.ID, Kind: pipe.Kind, Radius: pipe.Radius, Label: label}
	}
	for i, pt := range snap.Particles {
		v.Particles[i] = ParticleView{Pipe: pt.Pipe, Position: pt.Position, Color: pt.Color}
	}
	if a, ok := snap.SelectedAsset(); ok {
		v.Panel = PanelFor(a)
	}
	v.Fingerprint = Fingerprint(v)
	return v
}

// PanelFor fills the side panel for an asset.
func PanelFor(a models.AssetSnapshot) Panel {
	return Panel{
		ID:          strconv.Itoa(a.Key.ID),
		Name:        fmt.Sprintf("%s (%s)", a.Name, a.Key.Type),
		Status:      strings.ToUpper(a.Status.String()),
		Temperature: fmt.Sprintf("%.1f °C", a.Temperature),
		Load:        fmt.Sprintf("%.0f %%", a.Load*100),
	}
}

// LabelText is the two-line overlay text: name, then load.
func LabelText(a models.AssetSnapshot) string {
	return fmt.Sprintf("%s\n%.2f load", a.Name, a.Load)
}

func LabelClass(s models.Status) string {
	switch s {
	case models.StatusWarn:
		return "label warn"
	case models.StatusAlert:
		return "label alert"
	default:
		return "label"
	}
}

// FormatThroughput prints 2 decimals, "0.00" before the first tick.
func FormatThroughput(v float64, sampled bool) string {
	if !sampled {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func AutoRotateLabel(on bool) string {
	if on {
		return "Auto Rotate: ON"
	}
	return "Auto Rotate: OFF"
}

// Fingerprint hashes the panel, materials, labels and toggles. Particle
// positions, the camera and shader time are excluded, so the value only
// changes when something a user reads changes.
func Fingerprint(v ViewState) uint64 {
	d := digests.Get()
	defer digests.Put(d)
	write := func(parts ...string) {
		for _, s := range parts {
			_, _ = d.WriteString(s)
			_, _ = d.Write([]byte{0})
		}
	}
	write(v.Panel.ID, v.Panel.Name, v.Panel.Status, v.Panel.Temperature, v.Panel.Load)
	for _, a := range v.Assets {
		write(a.Key.String(), a.Material.Color, a.Material.Emissive, a.Label.Text, a.Label.Class,
			strconv.FormatFloat(a.Material.EmissiveIntensity, 'f', -1, 64))
	}
	write(v.Throughput, v.Sparkline.Line, v.Flow.String(), v.Theme.Name, v.AutoRotateLabel)
	return d.Sum64()
}
