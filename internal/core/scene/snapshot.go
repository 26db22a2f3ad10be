package scene

import (
	"github.com/zeusync/hvactwin/internal/core/camera"
	"github.com/zeusync/hvactwin/internal/core/geom"
	"github.com/zeusync/hvactwin/internal/core/models"
)

// PipeSnapshot is the static description of a pipe.
type PipeSnapshot struct {
	ID       models.PipeID
	Name     string
	Label    string
	Kind     models.PipeKind
	Radius   float64
	Length   float64
	Midpoint geom.Vec3
	Asset    *models.AssetKey
}

// ParticleSnapshot is a flow marker at one instant.
type ParticleSnapshot struct {
	Pipe     models.PipeID
	T        float64
	Position geom.Vec3
	Color    string
}

// Snapshot is a consistent copy of the scene. It shares nothing mutable with State.
type Snapshot struct {
	Assets     []models.AssetSnapshot
	Pipes      []PipeSnapshot
	Particles  []ParticleSnapshot
	Selected   *models.AssetKey
	Flow       FlowLevel
	Theme      Theme
	Camera     camera.Pose
	History    []float64
	Throughput float64
	Sampled    bool
	Ticks      uint64
	Frames     uint64
	ShaderTime float64
	ModelPath  string
}

// Snapshot copies the scene under the read lock.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Assets:     make([]models.AssetSnapshot, len(s.assets)),
		Pipes:      s.pipeViews,
		Particles:  make([]ParticleSnapshot, len(s.particles)),
		Flow:       s.flow,
		Theme:      s.theme(),
		Camera:     s.camera.Pose(),
		History:    s.history.Slice(),
		Throughput: s.throughput,
		Sampled:    s.sampled,
		Ticks:      s.ticks,
		Frames:     s.frames,
		ShaderTime: s.shaderTime,
		ModelPath:  s.modelPath,
	}
	for i, a := range s.assets {
		snap.Assets[i] = a.Snapshot()
	}
	for i, p := range s.particles {
		snap.Particles[i] = ParticleSnapshot{Pipe: p.Pipe.ID(), T: p.T, Position: p.Position, Color: p.Color}
	}
	if s.selected != nil {
		key := s.selected.Key()
		snap.Selected = &key
	}
	return snap
}

// SelectedAsset returns the selected asset's snapshot, if any.
func (snap Snapshot) SelectedAsset() (models.AssetSnapshot, bool) {
	if snap.Selected == nil {
		return models.AssetSnapshot{}, false
	}
	for _, a := range snap.Assets {
		if a.Key == *snap.Selected {
			return a, true
		}
	}
	return models.AssetSnapshot{}, false
}
