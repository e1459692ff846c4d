package editproj

import (
	"github.com/flywave/go3d/quaternion"
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/xtgo/uuid"
)

// Geometry 顶点数据
type Geometry struct {
	ID        string   `json:"id"`
	Positions []vec3.T `json:"positions"`
	Normals   []vec3.T `json:"normals,omitempty"`
	UVs       []vec2.T `json:"uvs,omitempty"`
	Indices   []uint32 `json:"indices,omitempty"`
}

// ComputeNormals rebuilds per-vertex normals from the triangle list,
// weighting each face by its area.
func (g *Geometry) ComputeNormals() {
	normals := make([]vec3.T, len(g.Positions))
	for i := 0; i+2 < len(g.Indices); i += 3 {
		a, b, c := g.Indices[i], g.Indices[i+1], g.Indices[i+2]
		if int(a) >= len(g.Positions) || int(b) >= len(g.Positions) || int(c) >= len(g.Positions) {
			continue
		}
		pt1 := g.Positions[a]
		pt2 := g.Positions[b]
		pt3 := g.Positions[c]

		sub1 := vec3.Sub(&pt3, &pt2)
		sub2 := vec3.Sub(&pt1, &pt2)

		cro := vec3.Cross(&sub1, &sub2)
		if cro.Length() == 0 {
			continue
		}
		normals[a].Add(&cro)
		normals[b].Add(&cro)
		normals[c].Add(&cro)
	}

	for i := range normals {
		if normals[i] != (vec3.T{}) {
			normals[i].Normalize()
		}
	}
	g.Normals = normals
}

// LightProps 灯光属性
type LightProps struct {
	Type      string     `json:"type"`
	Diffuse   [3]float32 `json:"diffuse"`
	Specular  [3]float32 `json:"specular"`
	Intensity float32    `json:"intensity"`
	Range     float32    `json:"range"`
	Direction vec3.T     `json:"direction"`
	Angle     float32    `json:"angle,omitempty"`
}

// CameraProps 相机属性
type CameraProps struct {
	Type   string  `json:"type"`
	Fov    float32 `json:"fov"`
	MinZ   float32 `json:"minZ"`
	MaxZ   float32 `json:"maxZ"`
	Target vec3.T  `json:"target"`
}

// Node is a mesh, light or camera of the scene graph. Kind selects which of
// the kind-specific fields are meaningful.
type Node struct {
	ID       string
	Name     string
	Kind     NodeKind
	Position vec3.T
	Rotation quaternion.T
	Scaling  vec3.T
	Visible  bool

	Parent   *Node
	Children []*Node

	Animations    []*Animation
	ActionManager *ActionManager

	// mesh
	Geometry *Geometry
	Material *Material

	// light
	Light           *LightProps
	ShadowGenerator *ShadowGenerator

	// camera
	Camera *CameraProps
}

func NewID() string {
	return uuid.NewRandom().String()
}

func newNode(name string, kind NodeKind) *Node {
	return &Node{
		ID:       NewID(),
		Name:     name,
		Kind:     kind,
		Rotation: quaternion.Ident,
		Scaling:  vec3.T{1, 1, 1},
		Visible:  true,
	}
}

func NewMesh(name string) *Node {
	return newNode(name, NodeMesh)
}

func NewLight(name string, typ string) *Node {
	n := newNode(name, NodeLight)
	n.Light = &LightProps{
		Type:      typ,
		Diffuse:   [3]float32{1, 1, 1},
		Specular:  [3]float32{1, 1, 1},
		Intensity: 1,
		Direction: vec3.T{0, -1, 0},
	}
	return n
}

func NewCamera(name string) *Node {
	n := newNode(name, NodeCamera)
	n.Camera = &CameraProps{Type: "FreeCamera", Fov: 0.8, MinZ: 1, MaxZ: 10000}
	return n
}

// AddChild reparents c under n.
func (n *Node) AddChild(c *Node) {
	if c.Parent != nil {
		c.Parent.removeChild(c)
	}
	c.Parent = n
	n.Children = append(n.Children, c)
}

func (n *Node) removeChild(c *Node) {
	for i, ch := range n.Children {
		if ch == c {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return
		}
	}
}

func (n *Node) animationList() *[]*Animation {
	return &n.Animations
}
