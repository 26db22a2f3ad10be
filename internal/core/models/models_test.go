package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/hvactwin/internal/core/geom"
	"github.com/zeusync/hvactwin/internal/core/twinerr"
)

func TestDeriveStatusThresholds(t *testing.T) {
	cases := []struct {
		load, temp float64
		want       Status
	}{
		{0.5, 40, StatusOK},
		{0.95, 40, StatusOK},
		{0.950001, 40, StatusWarn},
		{0.5, 70, StatusOK},
		{0.5, 70.01, StatusWarn},
		{1.05, 40, StatusWarn},
		{1.050001, 40, StatusAlert},
		{0.5, 80, StatusWarn},
		{0.5, 80.5, StatusAlert},
		{1.1, 90, StatusAlert},
		{0.99, 85, StatusAlert},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DeriveStatus(tc.load, tc.temp), "load=%v temp=%v", tc.load, tc.temp)
	}
}

func TestAssetTelemetryKeepsStatusDerived(t *testing.T) {
	a, err := NewAsset(AssetKey{Type: AssetChiller, ID: 3}, geom.V3(0, 0, -6), 36, 0.5)
	require.NoError(t, err)
	assert.Equal(t, "Chiller 3", a.Name())
	assert.Equal(t, StatusOK, a.Status())

	require.NoError(t, a.SetTelemetry(1.1, 90))
	assert.Equal(t, StatusAlert, a.Status())

	assert.ErrorIs(t, a.SetTelemetry(math.NaN(), 20), ErrNonFiniteTelemetry)
	assert.Equal(t, 1.1, a.Load(), "rejected update leaves values")
	assert.Equal(t, StatusAlert, a.Snapshot().Status)
}

func TestAssetTypeText(t *testing.T) {
	var at AssetType
	require.NoError(t, at.UnmarshalText([]byte("Compressor")))
	assert.Equal(t, AssetCompressor, at)
	assert.Error(t, at.UnmarshalText([]byte("boiler")))
	assert.Equal(t, "tank-2", AssetKey{Type: AssetTank, ID: 2}.String())
	assert.Equal(t, "Tank", AssetTank.Title())
}

func TestPipeNamesAndCurve(t *testing.T) {
	key := AssetKey{Type: AssetTank, ID: 1}
	p, err := NewPipe(2, PipeSpur, []geom.Vec3{geom.V3(-32.2, 1.8, -10), geom.V3(-30, 1.8, -10)}, 0.12, &key)
	require.NoError(t, err)
	assert.Equal(t, "Pipe 2", p.Name())
	assert.Equal(t, "P2", p.Label())
	got, ok := p.Asset()
	assert.True(t, ok)
	assert.Equal(t, key, got)
	assert.InDelta(t, -31.1, p.Midpoint().X(), 1e-3)

	_, err = NewPipe(3, PipeTrunk, []geom.Vec3{geom.V3(0, 0, 0)}, 0.1, nil)
	assert.ErrorIs(t, err, twinerr.ErrConfiguration)
}

func TestWrapUnit(t *testing.T) {
	assert.Equal(t, 0.0, WrapUnit(1))
	assert.InDelta(t, 0.25, WrapUnit(1.25), 1e-12)
	assert.InDelta(t, 0.75, WrapUnit(-0.25), 1e-12)
	assert.Equal(t, 0.0, WrapUnit(math.Inf(1)))
	assert.Equal(t, 0.0, WrapUnit(math.NaN()))
	v := WrapUnit(-1e-20)
	assert.True(t, v >= 0 && v < 1)
}

func TestStatusText(t *testing.T) {
	for _, s := range []Status{StatusOK, StatusWarn, StatusAlert} {
		b, err := s.MarshalText()
		require.NoError(t, err)
		var back Status
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, s, back)
	}
	var s Status
	assert.Error(t, s.UnmarshalText([]byte("fine")))
}
