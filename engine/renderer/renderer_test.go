package renderer

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/orrery/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullRendererRecordsLastFrame(t *testing.T) {
	r, err := NewRenderer(BackendTypeNull, WithSize(800, 600))
	require.NoError(t, err)

	_, ok := r.LastFrame()
	assert.False(t, ok)

	require.NoError(t, r.Render(FrameData{Frame: 1, Shine: 0.1}))
	require.NoError(t, r.Render(FrameData{Frame: 2, Shine: 0.2}))

	last, ok := r.LastFrame()
	require.True(t, ok)
	assert.Equal(t, uint64(2), last.Frame)
	assert.Equal(t, uint64(2), r.FrameCount())

	w, h := r.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestLogRendererRejectsFrameWithoutUniform(t *testing.T) {
	r, err := NewRenderer(BackendTypeLog, WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)
	err = r.Render(FrameData{Frame: 3})
	require.ErrorIs(t, err, ErrEmptyFrame)
	assert.Contains(t, err.Error(), "log renderer: frame 3")
	assert.Zero(t, r.FrameCount())
}

func TestLogRendererWritesSummaries(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r, err := NewRenderer(BackendTypeLog, WithLogger(logger), WithLogEvery(2))
	require.NoError(t, err)

	for i := uint64(0); i < 4; i++ {
		require.NoError(t, r.Render(FrameData{
			Frame:         i,
			CameraUniform: []byte{1},
			Drawables:     []Drawable{{Name: "sun", Visible: true}, {Name: "moon"}},
		}))
	}

	out := buf.String()
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("msg=frame")))
	assert.Contains(t, out, "visible=1")
	assert.Contains(t, out, "drawables=2")
}

func TestParseBackendType(t *testing.T) {
	for _, bt := range []RendererBackendType{BackendTypeNull, BackendTypeLog, BackendTypeWGPU} {
		got, err := ParseBackendType(bt.String())
		require.NoError(t, err)
		assert.Equal(t, bt, got)
	}
	_, err := ParseBackendType("vulkan")
	assert.Error(t, err)
}

func TestWGPURendererNeedsSurface(t *testing.T) {
	_, err := NewRenderer(BackendTypeWGPU, WithLogger(slog.New(slog.DiscardHandler)))
	assert.ErrorIs(t, err, ErrNoSurface)
}

func TestBodyShaderBindsCameraUniform(t *testing.T) {
	src := bodyShaderSource()
	assert.Contains(t, src, "struct CameraUniform")
	assert.Contains(t, src, "var<uniform> camera: CameraUniform")
	assert.Less(t, strings.Index(src, "struct CameraUniform"), strings.Index(src, "var<uniform> camera"))
}

func TestPackBodyVerticesKeepsVisibleBodies(t *testing.T) {
	var sunWorld, earthWorld [16]float32
	common.Identity(sunWorld[:])
	common.Translation4(earthWorld[:], 3, 0, -4)

	frame := FrameData{
		Shine: 0.1,
		Drawables: []Drawable{
			{Name: "sun", World: sunWorld, Visible: true, Payload: common.RenderPayload{MaterialColor: [3]float32{0.5, 0.25, 0}, Emissive: true}},
			{Name: "mars", World: sunWorld, Visible: false},
			{Name: "earth", World: earthWorld, Visible: true, Payload: common.RenderPayload{MaterialColor: [3]float32{0, 0.4, 1}}},
		},
	}

	data, n := packBodyVertices(frame)
	require.Equal(t, 2, n)
	require.Len(t, data, 2*bodyVertexSize)

	read := func(vertex, field int) float32 {
		off := vertex*bodyVertexSize + field*4
		return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
	}

	gain := float32(1 + 0.1*emissiveGain)
	assert.InDelta(t, 0.5*gain, read(0, 3), 1e-6, "emissive red brightened by shine")
	assert.InDelta(t, 0.25*gain, read(0, 4), 1e-6)
	assert.Equal(t, float32(1), read(0, 6))

	assert.Equal(t, float32(3), read(1, 0))
	assert.Equal(t, float32(-4), read(1, 2))
	assert.Equal(t, float32(0.4), read(1, 4), "non-emissive color unchanged")
}
