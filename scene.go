package editproj

import (
	"github.com/flywave/go3d/vec3"
)

// AnimationKey 关键帧
type AnimationKey struct {
	Frame  float32   `json:"frame"`
	Values []float32 `json:"values"`
}

// Animation 关键帧动画
type Animation struct {
	Name            string         `json:"name"`
	TargetProperty  string         `json:"property"`
	FramesPerSecond float32        `json:"framePerSecond"`
	DataType        int            `json:"dataType"`
	LoopMode        int            `json:"loopBehavior"`
	Keys            []AnimationKey `json:"keys"`
}

// Range returns the first and last key frame.
func (a *Animation) Range() (from, to float32) {
	if len(a.Keys) == 0 {
		return 0, 0
	}
	from, to = a.Keys[0].Frame, a.Keys[0].Frame
	for _, k := range a.Keys[1:] {
		if k.Frame < from {
			from = k.Frame
		}
		if k.Frame > to {
			to = k.Frame
		}
	}
	return from, to
}

// Action 动作图中的一个节点
type Action struct {
	Trigger    string         `json:"trigger,omitempty"`
	Name       string         `json:"name"`
	Target     string         `json:"target,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	Children   []*Action      `json:"children,omitempty"`
}

// ActionManager 动作图
type ActionManager struct {
	Actions []*Action `json:"actions"`
}

// ShadowGenerator 阴影生成器
type ShadowGenerator struct {
	Light              *Node
	MapSize            int
	Bias               float32
	UsePoissonSampling bool
	RenderList         []*Node
}

// ParticleSystem 粒子系统
type ParticleSystem struct {
	ID          string
	Name        string
	Emitter     *Node
	Capacity    int
	EmitRate    float32
	MinSize     float32
	MaxSize     float32
	MinLifeTime float32
	MaxLifeTime float32
	Direction1  vec3.T
	Direction2  vec3.T
	Gravity     vec3.T
	Color1      [4]float32
	Color2      [4]float32
	Texture     *Texture
	Animations  []*Animation
}

func (ps *ParticleSystem) animationList() *[]*Animation {
	return &ps.Animations
}

// LensFlare 单个光晕
type LensFlare struct {
	Size     float32
	Position float32
	Color    [3]float32
	Texture  *Texture
}

// LensFlareSystem 光晕系统
type LensFlareSystem struct {
	ID          string
	Name        string
	Emitter     *Node
	BorderLimit float32
	Flares      []*LensFlare
}

// RenderTarget 自定义渲染目标
type RenderTarget struct {
	ID         string
	Name       string
	Size       int
	RenderList []*Node
	Texture    *Texture
}

// ReflectionProbe 反射探针
type ReflectionProbe struct {
	Name         string
	Size         int
	Position     vec3.T
	RenderList   []*Node
	AttachedMesh *Node
	CubeTexture  *Texture
}

// Sound 声音
type Sound struct {
	Name         string
	URL          string
	Volume       float32
	Loop         bool
	Autoplay     bool
	Spatial      bool
	AttachedNode *Node
	Animations   []*Animation
}

func (s *Sound) animationList() *[]*Animation {
	return &s.Animations
}

// Resolver looks up live objects referenced by id or name inside a
// serialized payload.
type Resolver interface {
	NodeByID(id string) *Node
	GeometryByID(id string) *Geometry
	MaterialByID(id string) *Material
	RenderTargetByName(name string) *RenderTarget
	ProbeByName(name string) *ReflectionProbe
}

type animatable interface {
	animationList() *[]*Animation
}

// Scene 场景, 所有集合按插入顺序保存
type Scene struct {
	Name string

	Meshes  []*Node
	Lights  []*Node
	Cameras []*Node

	Geometries          []*Geometry
	Materials           []*Material
	Textures            []*Texture
	ParticleSystems     []*ParticleSystem
	LensFlareSystems    []*LensFlareSystem
	ReflectionProbes    []*ReflectionProbe
	CustomRenderTargets []*RenderTarget
	Sounds              []*Sound

	Animations    []*Animation
	ActionManager *ActionManager
}

func NewScene(name string) *Scene {
	return &Scene{Name: name}
}

func (s *Scene) animationList() *[]*Animation {
	return &s.Animations
}

// AddNode appends n to the collection of its kind. Children are not added.
func (s *Scene) AddNode(n *Node) {
	switch n.Kind {
	case NodeMesh:
		s.Meshes = append(s.Meshes, n)
	case NodeLight:
		s.Lights = append(s.Lights, n)
	case NodeCamera:
		s.Cameras = append(s.Cameras, n)
	}
}

// AddTree adds n and all its descendants.
func (s *Scene) AddTree(n *Node) {
	s.AddNode(n)
	for _, c := range n.Children {
		s.AddTree(c)
	}
}

// Nodes returns lights, cameras and meshes in that order.
func (s *Scene) Nodes() []*Node {
	nodes := make([]*Node, 0, len(s.Lights)+len(s.Cameras)+len(s.Meshes))
	nodes = append(nodes, s.Lights...)
	nodes = append(nodes, s.Cameras...)
	return append(nodes, s.Meshes...)
}

func (s *Scene) RootNodes() []*Node {
	var roots []*Node
	for _, n := range s.Nodes() {
		if n.Parent == nil {
			roots = append(roots, n)
		}
	}
	return roots
}

func (s *Scene) NodeByID(id string) *Node {
	for _, n := range s.Nodes() {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (s *Scene) NodeByName(name string) *Node {
	for _, n := range s.Nodes() {
		if n.Name == name {
			return n
		}
	}
	return nil
}

func (s *Scene) MeshByName(name string) *Node {
	return firstNamed(s.Meshes, name)
}

func (s *Scene) LightByName(name string) *Node {
	return firstNamed(s.Lights, name)
}

func (s *Scene) CameraByName(name string) *Node {
	return firstNamed(s.Cameras, name)
}

func firstNamed(nodes []*Node, name string) *Node {
	for _, n := range nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

func (s *Scene) GeometryByID(id string) *Geometry {
	for _, g := range s.Geometries {
		if g.ID == id {
			return g
		}
	}
	return nil
}

func (s *Scene) MaterialByID(id string) *Material {
	for _, m := range s.Materials {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (s *Scene) SoundByName(name string) *Sound {
	for _, snd := range s.Sounds {
		if snd.Name == name {
			return snd
		}
	}
	return nil
}

func (s *Scene) ParticleSystemByName(name string) *ParticleSystem {
	for _, ps := range s.ParticleSystems {
		if ps.Name == name {
			return ps
		}
	}
	return nil
}

func (s *Scene) RenderTargetByName(name string) *RenderTarget {
	for _, rt := range s.CustomRenderTargets {
		if rt.Name == name {
			return rt
		}
	}
	return nil
}

func (s *Scene) ProbeByName(name string) *ReflectionProbe {
	for _, p := range s.ReflectionProbes {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// ParticleSystemsOf returns the systems emitted by n.
func (s *Scene) ParticleSystemsOf(n *Node) []*ParticleSystem {
	var out []*ParticleSystem
	for _, ps := range s.ParticleSystems {
		if ps.Emitter == n {
			out = append(out, ps)
		}
	}
	return out
}
