package projector

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/zeusync/hvactwin/internal/core/models"
)

// Emissive intensity per status.
var intensity = map[models.Status]float64{
	models.StatusOK:    0.8,
	models.StatusWarn:  1.3,
	models.StatusAlert: 1.7,
}

type swatch struct {
	color    colorful.Color
	emissive colorful.Color
}

var palettes = map[models.AssetType]map[models.Status]swatch{
	models.AssetTank: {
		models.StatusOK:    {mustHex("#2a70b7"), mustHex("#0c5ca3")},
		models.StatusWarn:  {mustHex("#2a70b7"), mustHex("#0c5ca3")},
		models.StatusAlert: {mustHex("#2a70b7"), mustHex("#0c5ca3")},
	},
	models.AssetChiller: {
		models.StatusOK:    {mustHex("#0d8a37"), mustHex("#39ff78")},
		models.StatusWarn:  {mustHex("#2b4a0f"), mustHex("#ff8a3a")},
		models.StatusAlert: {mustHex("#40141f"), mustHex("#ff355d")},
	},
	models.AssetCompressor: {
		models.StatusOK:    {mustHex("#5a1a08"), mustHex("#ff6a2a")},
		models.StatusWarn:  {mustHex("#5a1a08"), mustHex("#ff8a3a")},
		models.StatusAlert: {mustHex("#5a1a08"), mustHex("#ff355d")},
	},
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Material is the surface look of an asset mesh.
type Material struct {
	Color             string  `json:"color"`
	Emissive          string  `json:"emissive"`
	EmissiveIntensity float64 `json:"emissiveIntensity"`
	// Glow is the emissive color scaled by intensity, clamped to gamut.
	Glow string `json:"glow"`
}

// MaterialFor returns the material for an asset type in a given status.
func MaterialFor(t models.AssetType, s models.Status) Material {
	sw := palettes[t][s]
	k := intensity[s]
	glow := colorful.Color{R: sw.emissive.R * k, G: sw.emissive.G * k, B: sw.emissive.B * k}.Clamped()
	return Material{
		Color:             sw.color.Hex(),
		Emissive:          sw.emissive.Hex(),
		EmissiveIntensity: k,
		Glow:              glow.Hex(),
	}
}
