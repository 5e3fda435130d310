// Package scene builds the solar-system scene graph and publishes it to renderers once per frame.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/orrery/common"
	"github.com/Carmen-Shannon/orrery/engine/animator"
	"github.com/Carmen-Shannon/orrery/engine/body"
	"github.com/Carmen-Shannon/orrery/engine/camera"
	"github.com/Carmen-Shannon/orrery/engine/renderer"
	"github.com/Carmen-Shannon/orrery/engine/scene/node"
)

// Scene owns the orrery's node tree: one shared sun orbit root, an orbit node per body
// (translated by the orbit radius) and a body node under it (scaled to the body's size).
// The moon's orbit hangs from the Earth body node. The scene answers anchor queries for the
// camera controller and hands an immutable frame snapshot to every registered Renderer.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Root returns the sun orbit node every other node descends from.
	Root() node.Node

	// Orbit returns the orbit node of a body, or nil for an unknown id. The sun's orbit node is the root.
	//
	// Parameters:
	//   - id: the body
	//
	// Returns:
	//   - node.Node: the orbit node or nil
	Orbit(id body.ID) node.Node

	// Body returns the body node of a body, or nil for an unknown id.
	//
	// Parameters:
	//   - id: the body
	//
	// Returns:
	//   - node.Node: the body node or nil
	Body(id body.ID) node.Node

	// Specs returns the body table the scene was built from, in build order.
	Specs() []body.Spec

	// Spec returns the constants of a body.
	//
	// Parameters:
	//   - id: the body
	//
	// Returns:
	//   - body.Spec: the body's constants
	//   - bool: false if the scene has no such body
	Spec(id body.ID) (body.Spec, bool)

	// OrbitTransforms returns the world transform of a body's orbit node and of that node's parent.
	// The parent transform is the identity for the root.
	//
	// Parameters:
	//   - id: the body
	//
	// Returns:
	//   - orbitWorld: the orbit node's world transform
	//   - parentWorld: the orbit node's parent world transform
	//   - ok: false if the scene has no such body
	OrbitTransforms(id body.ID) (orbitWorld, parentWorld [16]float32, ok bool)

	// BodyPosition returns the world position of a body's center as of the last Update.
	//
	// Parameters:
	//   - id: the body
	//
	// Returns:
	//   - [3]float32: world-space position
	//   - bool: false if the scene has no such body
	BodyPosition(id body.ID) ([3]float32, bool)

	// AnimationTargets returns the orbit/body node pairs with their rate factors, ready for an Animator.
	AnimationTargets() []animator.Target

	// Drawables returns every node carrying a draw payload, root-to-leaf.
	Drawables() []node.Node

	// Update recomputes world transforms top-down from the root.
	Update()

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Renderers returns the registered renderers.
	Renderers() []renderer.Renderer

	// AddRenderer registers a renderer to receive every presented frame.
	//
	// Parameters:
	//   - r: the renderer
	AddRenderer(r renderer.Renderer)

	// CullingDisabled returns whether frustum visibility is skipped. When true every drawable is
	// reported visible.
	CullingDisabled() bool

	// SetCullingDisabled enables or disables frustum visibility tests.
	//
	// Parameters:
	//   - disabled: true to report every drawable visible
	SetCullingDisabled(disabled bool)

	// Present builds the frame snapshot from the current world transforms and camera and hands it
	// to every renderer. With more than one renderer the hand-off runs on the scene's worker pool;
	// Present returns once all renderers are done.
	//
	// Parameters:
	//   - shine: the sun's emissive intensity for this frame
	//
	// Returns:
	//   - error: the joined renderer errors, or nil
	Present(shine float32) error

	// FrameCount returns the number of frames presented.
	FrameCount() uint64

	// Close stops the scene's worker pool.
	Close()
}

// entry is the pair of nodes built for one body.
type entry struct {
	spec  body.Spec
	orbit node.Node
	body  node.Node
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.RWMutex

	name   string
	specs  []body.Spec
	logger *slog.Logger

	root      node.Node
	entries   map[body.ID]*entry
	drawables []node.Node
	owners    map[node.Node]body.ID

	cam       camera.Camera
	renderers []renderer.Renderer

	cullingDisabled bool
	presentWorkers  int
	presentPool     worker.DynamicWorkerPool

	frames uint64
}

var _ Scene = &scene{}
var _ camera.Tracker = &scene{}

// NewScene builds the scene graph from the body table (body.DefaultSpecs unless WithBodies is given)
// and computes the initial world transforms.
//
// Panics if cam is nil.
//
// Parameters:
//   - name: the scene's identifier
//   - cam: the camera whose matrices are published with every frame
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
//   - error: an error if the body table is inconsistent
func NewScene(name string, cam camera.Camera, options ...SceneBuilderOption) (Scene, error) {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}

	s := &scene{
		mu:             &sync.RWMutex{},
		name:           name,
		specs:          body.DefaultSpecs(),
		logger:         slog.Default(),
		entries:        make(map[body.ID]*entry),
		owners:         make(map[node.Node]body.ID),
		cam:            cam,
		presentWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}

	if err := s.build(); err != nil {
		return nil, fmt.Errorf("scene %q: %w", name, err)
	}

	// Initialize the pool after options so WithPresentWorkers can override the default.
	s.presentPool = worker.NewDynamicWorkerPool(s.presentWorkers, 16, 1*time.Second)

	s.root.UpdateWorldTransform(nil)
	s.logger.Info("scene built",
		slog.String("scene", name),
		slog.Int("bodies", len(s.entries)),
		slog.Int("drawables", len(s.drawables)),
	)
	return s, nil
}

// build creates every orbit and body node and wires the hierarchy. Orbit parents may appear
// later in the table than the bodies orbiting them.
func (s *scene) build() error {
	s.root = node.NewNode(node.WithName(body.Sun.String() + "_orbit"))

	for _, spec := range s.specs {
		if !spec.ID.Valid() {
			return fmt.Errorf("invalid body id %d", int(spec.ID))
		}
		if _, dup := s.entries[spec.ID]; dup {
			return fmt.Errorf("duplicate body %s", spec.ID)
		}

		e := &entry{spec: spec}
		if spec.ID == body.Sun {
			e.orbit = s.root
		} else {
			var t [16]float32
			common.Translation4(t[:], spec.OrbitRadius, 0, 0)
			e.orbit = node.NewNode(node.WithName(spec.Name+"_orbit"), node.WithLocalTransform(t))
		}

		var sc [16]float32
		common.Scale4(sc[:], spec.Scale)
		e.body = node.NewNode(
			node.WithName(spec.Name),
			node.WithLocalTransform(sc),
			node.WithPayload(&common.RenderPayload{
				MaterialColor:  spec.MaterialColor,
				MeshHandle:     uint32(spec.ID),
				Emissive:       spec.Emissive,
				BoundingRadius: 1,
			}),
		)
		node.SetParent(e.body, e.orbit)
		s.entries[spec.ID] = e
		s.owners[e.body] = spec.ID
	}

	for _, spec := range s.specs {
		if spec.ID == body.Sun {
			continue
		}
		e := s.entries[spec.ID]
		parent := s.root
		if spec.OrbitParent != body.None {
			p, ok := s.entries[spec.OrbitParent]
			if !ok {
				return fmt.Errorf("%s orbits unknown body %s", spec.ID, spec.OrbitParent)
			}
			if spec.OrbitParent == spec.ID {
				return fmt.Errorf("%s cannot orbit itself", spec.ID)
			}
			parent = p.body
		}
		node.SetParent(e.orbit, parent)
	}

	node.Walk(s.root, func(n node.Node) bool {
		if n.Payload() != nil {
			s.drawables = append(s.drawables, n)
		}
		return true
	})

	// A cycle in OrbitParent leaves bodies unreachable from the root.
	if len(s.drawables) != len(s.entries) {
		return errors.New("body table contains an orbit cycle")
	}
	return nil
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) Root() node.Node {
	return s.root
}

func (s *scene) Orbit(id body.ID) node.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[id]; ok {
		return e.orbit
	}
	return nil
}

func (s *scene) Body(id body.ID) node.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[id]; ok {
		return e.body
	}
	return nil
}

func (s *scene) Specs() []body.Spec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]body.Spec, len(s.specs))
	copy(out, s.specs)
	return out
}

func (s *scene) Spec(id body.ID) (body.Spec, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return body.Spec{}, false
	}
	return e.spec, true
}

func (s *scene) OrbitTransforms(id body.ID) ([16]float32, [16]float32, bool) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return [16]float32{}, [16]float32{}, false
	}

	parentWorld := common.IdentityMatrix()
	if p := e.orbit.Parent(); p != nil {
		parentWorld = p.WorldTransform()
	}
	return e.orbit.WorldTransform(), parentWorld, true
}

func (s *scene) BodyPosition(id body.ID) ([3]float32, bool) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return [3]float32{}, false
	}
	w := e.body.WorldTransform()
	return common.TranslationOf(w[:]), true
}

func (s *scene) AnimationTargets() []animator.Target {
	s.mu.RLock()
	defer s.mu.RUnlock()

	targets := make([]animator.Target, 0, len(s.specs))
	for _, spec := range s.specs {
		e := s.entries[spec.ID]
		t := animator.Target{
			Name:           spec.Name,
			Body:           e.body,
			RotationFactor: spec.RotationFactor,
		}
		// The root is shared by every orbit; spinning it would drag the whole system.
		if e.orbit != s.root {
			t.Orbit = e.orbit
			t.RevolutionFactor = spec.RevolutionFactor
		}
		targets = append(targets, t)
	}
	return targets
}

func (s *scene) Drawables() []node.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]node.Node, len(s.drawables))
	copy(out, s.drawables)
	return out
}

func (s *scene) Update() {
	s.root.UpdateWorldTransform(nil)
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cam != nil {
		s.cam = cam
	}
}

func (s *scene) Renderers() []renderer.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]renderer.Renderer, len(s.renderers))
	copy(out, s.renderers)
	return out
}

func (s *scene) AddRenderer(r renderer.Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r != nil {
		s.renderers = append(s.renderers, r)
	}
}

func (s *scene) CullingDisabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cullingDisabled
}

func (s *scene) SetCullingDisabled(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cullingDisabled = disabled
}

func (s *scene) FrameCount() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frames
}

func (s *scene) Present(shine float32) error {
	// Snapshot scene state under the lock, then read nodes and camera without it so the
	// camera controller can query the scene from its own lock.
	s.mu.Lock()
	s.frames++
	frameNo := s.frames
	cam := s.cam
	culling := !s.cullingDisabled
	nodes := s.drawables
	owners := s.owners
	renderers := make([]renderer.Renderer, len(s.renderers))
	copy(renderers, s.renderers)
	s.mu.Unlock()

	frustum := cam.Frustum()
	uniform := cam.Uniform(shine)
	frame := renderer.FrameData{
		Frame:          frameNo,
		Drawables:      make([]renderer.Drawable, 0, len(nodes)),
		ViewProj:       uniform.ViewProj,
		CameraPosition: uniform.CameraPosition,
		CameraTarget:   uniform.CameraTarget,
		CameraUniform:  uniform.Marshal(),
		Shine:          shine,
	}

	for _, n := range nodes {
		p := n.Payload()
		if p == nil {
			continue
		}
		world := n.WorldTransform()
		payload := *p
		visible := true
		if culling {
			radius := payload.BoundingRadius * common.MaxScale(world[:])
			visible = frustum.ContainsSphere(common.TranslationOf(world[:]), radius)
		}
		frame.Drawables = append(frame.Drawables, renderer.Drawable{
			Name:    n.Name(),
			Body:    owners[n],
			World:   world,
			Payload: payload,
			Visible: visible,
		})
	}

	switch len(renderers) {
	case 0:
		return nil
	case 1:
		return renderers[0].Render(frame)
	}

	// A WaitGroup provides the per-frame barrier since pool.Wait() blocks until
	// workers idle-exit which is unsuitable for frame-rate workloads.
	errs := make([]error, len(renderers))
	var wg sync.WaitGroup
	for i, r := range renderers {
		wg.Add(1)
		s.presentPool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				errs[i] = r.Render(frame)
				return nil, errs[i]
			},
		})
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (s *scene) Close() {
	s.presentPool.Stop()
}
