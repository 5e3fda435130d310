package renderer

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/Carmen-Shannon/orrery/common"
	"github.com/Carmen-Shannon/orrery/engine/camera"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/bodies.wgsl
var bodiesShaderSource string

const (
	// bodyVertexSize is the stride of one packed body vertex: a vec3 position and a vec4 color.
	bodyVertexSize = 28

	// emissiveGain scales how strongly the shine scalar brightens emissive bodies.
	emissiveGain = 4

	// initialBodyCapacity is the number of vertices the first vertex buffer holds.
	initialBodyCapacity = 16
)

// ErrNoSurface is returned when the wgpu backend is created without a window surface.
var ErrNoSurface = errors.New("wgpu renderer needs a window surface")

// errSurfaceNotConfigured is returned by frames rendered before the surface has a size.
var errSurfaceNotConfigured = errors.New("surface not configured")

var bodyVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: bodyVertexSize,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
	},
}

// bodyShaderSource is the camera uniform definition followed by the body point shader that binds it.
func bodyShaderSource() string {
	return camera.GPUCameraUniformSource + "\n" + bodiesShaderSource
}

// packBodyVertices writes one vertex per visible drawable: its world origin and its material
// color, brightened by shine when the material is emissive.
//
// Returns:
//   - []byte: the packed vertices
//   - int: the vertex count
func packBodyVertices(frame FrameData) ([]byte, int) {
	buf := make([]byte, 0, len(frame.Drawables)*bodyVertexSize)
	n := 0
	put := func(v float32) {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	for _, d := range frame.Drawables {
		if !d.Visible {
			continue
		}
		pos := common.TranslationOf(d.World[:])
		color := d.Payload.MaterialColor
		if d.Payload.Emissive {
			gain := 1 + frame.Shine*emissiveGain
			for i := range color {
				color[i] = common.Clamp(color[i]*gain, 0, 1)
			}
		}
		put(pos[0])
		put(pos[1])
		put(pos[2])
		put(color[0])
		put(color[1])
		put(color[2])
		put(1)
		n++
	}
	return buf, n
}

// wgpuRendererBackend draws every visible body as a point through WebGPU. The camera uniform
// from the frame is uploaded as-is into the buffer bound at group 0.
// Called under the Renderer's lock, so it keeps no lock of its own.
type wgpuRendererBackend struct {
	logger *slog.Logger

	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat wgpu.TextureFormat
	configured    bool

	shader       *wgpu.ShaderModule
	cameraLayout *wgpu.BindGroupLayout
	cameraBuffer *wgpu.Buffer
	cameraGroup  *wgpu.BindGroup
	pipeline     *wgpu.RenderPipeline

	vertexBuffer   *wgpu.Buffer
	vertexCapacity uint64

	clear wgpu.Color
}

var _ RendererBackend = &wgpuRendererBackend{}

// newWGPURendererBackend acquires an adapter and device for the surface and creates the camera
// uniform buffer and its bind group. The pipeline is created on the first configureSurface,
// once the surface format is known.
func newWGPURendererBackend(surface *wgpu.SurfaceDescriptor, logger *slog.Logger) (*wgpuRendererBackend, error) {
	if surface == nil {
		return nil, ErrNoSurface
	}
	b := &wgpuRendererBackend{
		logger:   logger,
		instance: wgpu.CreateInstance(nil),
		clear:    wgpu.Color{R: 0, G: 0, B: 0.02, A: 1},
	}
	b.surface = b.instance.CreateSurface(surface)

	adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: b.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	b.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "orrery device"})
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}
	b.device = device
	b.queue = device.GetQueue()

	b.shader, err = device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "bodies",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: bodyShaderSource()},
	})
	if err != nil {
		return nil, fmt.Errorf("body shader: %w", err)
	}

	uniformSize := uint64((&camera.GPUCameraUniform{}).Size())
	b.cameraLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "camera",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: uniformSize,
			},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("camera bind group layout: %w", err)
	}

	b.cameraBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "camera uniform",
		Size:  uniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("camera buffer: %w", err)
	}

	b.cameraGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "camera",
		Layout: b.cameraLayout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  b.cameraBuffer,
			Size:    wgpu.WholeSize,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("camera bind group: %w", err)
	}
	return b, nil
}

func (b *wgpuRendererBackend) configureSurface(width, height int) {
	if width <= 0 || height <= 0 {
		b.configured = false
		return
	}
	caps := b.surface.GetCapabilities(b.adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		b.logger.Error("surface reports no formats")
		b.configured = false
		return
	}
	b.surfaceFormat = caps.Formats[0]
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	})
	b.configured = true

	if b.pipeline == nil {
		if err := b.createPipeline(); err != nil {
			b.logger.Error("body pipeline", slog.Any("error", err))
		}
	}
}

func (b *wgpuRendererBackend) createPipeline() error {
	layout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "bodies",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.cameraLayout},
	})
	if err != nil {
		return err
	}
	defer layout.Release()

	b.pipeline, err = b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "bodies",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     b.shader,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{bodyVertexLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     b.shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    b.surfaceFormat,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyPointList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	return err
}

// ensureVertexCapacity grows the vertex buffer to hold at least size bytes.
func (b *wgpuRendererBackend) ensureVertexCapacity(size uint64) error {
	if b.vertexBuffer != nil && size <= b.vertexCapacity {
		return nil
	}
	capacity := max(size, initialBodyCapacity*bodyVertexSize, b.vertexCapacity*2)
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "body vertices",
		Size:  capacity,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	if b.vertexBuffer != nil {
		b.vertexBuffer.Release()
	}
	b.vertexBuffer, b.vertexCapacity = buf, capacity
	return nil
}

func (b *wgpuRendererBackend) renderFrame(frame FrameData) error {
	if len(frame.CameraUniform) == 0 {
		return ErrEmptyFrame
	}
	if !b.configured || b.pipeline == nil {
		return errSurfaceNotConfigured
	}

	if err := b.queue.WriteBuffer(b.cameraBuffer, 0, frame.CameraUniform); err != nil {
		return fmt.Errorf("camera upload: %w", err)
	}
	vertices, count := packBodyVertices(frame)
	if count > 0 {
		if err := b.ensureVertexCapacity(uint64(len(vertices))); err != nil {
			return fmt.Errorf("vertex buffer: %w", err)
		}
		if err := b.queue.WriteBuffer(b.vertexBuffer, 0, vertices); err != nil {
			return fmt.Errorf("vertex upload: %w", err)
		}
	}

	texture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire surface: %w", err)
	}
	defer texture.Release()
	view, err := texture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "bodies",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: b.clear,
		}},
	})
	if count > 0 {
		pass.SetPipeline(b.pipeline)
		pass.SetBindGroup(0, b.cameraGroup, nil)
		pass.SetVertexBuffer(0, b.vertexBuffer, 0, uint64(len(vertices)))
		pass.Draw(uint32(count), 1, 0, 0)
	}
	err = pass.End()
	pass.Release()
	if err != nil {
		return fmt.Errorf("end pass: %w", err)
	}

	commands, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer commands.Release()
	b.queue.Submit(commands)
	b.surface.Present()
	return nil
}
