package editproj

import (
	"fmt"
	"path"
	"sync"

	"github.com/flywave/go3d/quaternion"
	"github.com/flywave/go3d/vec3"
	"github.com/jinzhu/copier"
)

type meshData struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	ParentID      string         `json:"parentId,omitempty" copier:"-"`
	Position      vec3.T         `json:"position"`
	Rotation      quaternion.T   `json:"rotationQuaternion"`
	Scaling       vec3.T         `json:"scaling"`
	Visible       bool           `json:"isVisible"`
	GeometryID    string         `json:"geometryId,omitempty" copier:"-"`
	MaterialID    string         `json:"materialId,omitempty" copier:"-"`
	AnimationData []*Animation   `json:"animations,omitempty" copier:"-"`
	ActionData    *ActionManager `json:"actions,omitempty" copier:"-"`
}

type lightData struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	ParentID      string       `json:"parentId,omitempty" copier:"-"`
	Position      vec3.T       `json:"position"`
	Rotation      quaternion.T `json:"rotationQuaternion"`
	Scaling       vec3.T       `json:"scaling"`
	Visible       bool         `json:"isEnabled"`
	Type          string       `json:"type"`
	Diffuse       [3]float32   `json:"diffuse"`
	Specular      [3]float32   `json:"specular"`
	Intensity     float32      `json:"intensity"`
	Range         float32      `json:"range"`
	Direction     vec3.T       `json:"direction"`
	Angle         float32      `json:"angle,omitempty"`
	AnimationData []*Animation `json:"animations,omitempty" copier:"-"`
}

type cameraData struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	ParentID      string       `json:"parentId,omitempty" copier:"-"`
	Position      vec3.T       `json:"position"`
	Rotation      quaternion.T `json:"rotationQuaternion"`
	Scaling       vec3.T       `json:"scaling"`
	Visible       bool         `json:"isEnabled"`
	Type          string       `json:"type"`
	Fov           float32      `json:"fov"`
	MinZ          float32      `json:"minZ"`
	MaxZ          float32      `json:"maxZ"`
	Target        vec3.T       `json:"target"`
	AnimationData []*Animation `json:"animations,omitempty" copier:"-"`
}

type materialData struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	CustomType     string         `json:"customType" copier:"-"`
	Alpha          float32        `json:"alpha"`
	Diffuse        [3]float32     `json:"diffuse"`
	Emissive       [3]float32     `json:"emissive"`
	Properties     map[string]any `json:"properties,omitempty"`
	SubMaterialIDs []string       `json:"materials,omitempty" copier:"-"`
}

type textureData struct {
	Name     string      `json:"name"`
	URL      string      `json:"url,omitempty"`
	Kind     TextureKind `json:"textureKind"`
	Width    int         `json:"width,omitempty"`
	Height   int         `json:"height,omitempty"`
	Level    float32     `json:"level"`
	HasAlpha bool        `json:"hasAlpha"`
}

type particleSystemData struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	EmitterID     string       `json:"emitterId,omitempty" copier:"-"`
	Capacity      int          `json:"capacity"`
	EmitRate      float32      `json:"emitRate"`
	MinSize       float32      `json:"minSize"`
	MaxSize       float32      `json:"maxSize"`
	MinLifeTime   float32      `json:"minLifeTime"`
	MaxLifeTime   float32      `json:"maxLifeTime"`
	Direction1    vec3.T       `json:"direction1"`
	Direction2    vec3.T       `json:"direction2"`
	Gravity       vec3.T       `json:"gravity"`
	Color1        [4]float32   `json:"color1"`
	Color2        [4]float32   `json:"color2"`
	TextureName   string       `json:"textureName,omitempty" copier:"-"`
	AnimationData []*Animation `json:"animations,omitempty" copier:"-"`
}

type lensFlareData struct {
	Size        float32    `json:"size"`
	Position    float32    `json:"position"`
	Color       [3]float32 `json:"color"`
	TextureName string     `json:"textureName,omitempty" copier:"-"`
}

type lensFlareSystemData struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	EmitterID   string          `json:"emitterId,omitempty" copier:"-"`
	BorderLimit float32         `json:"borderLimit"`
	FlareData   []lensFlareData `json:"flares" copier:"-"`
}

type soundData struct {
	Name            string  `json:"name"`
	URL             string  `json:"url"`
	Volume          float32 `json:"volume"`
	Loop            bool    `json:"loop"`
	Autoplay        bool    `json:"autoplay"`
	Spatial         bool    `json:"spatialSound"`
	ConnectedMeshID string  `json:"connectedMeshId,omitempty" copier:"-"`
}

type shadowGeneratorData struct {
	LightID            string   `json:"lightId"`
	MapSize            int      `json:"mapSize"`
	Bias               float32  `json:"bias"`
	UsePoissonSampling bool     `json:"usePoissonSampling"`
	MemberIDs          []string `json:"renderList" copier:"-"`
}

type renderTargetData struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Size      int      `json:"size"`
	MemberIDs []string `json:"renderList" copier:"-"`
}

type probeData struct {
	Name           string   `json:"name"`
	Size           int      `json:"size"`
	Position       vec3.T   `json:"position"`
	MemberIDs      []string `json:"renderList" copier:"-"`
	AttachedMeshID string   `json:"attachedMeshId,omitempty" copier:"-"`
}

// JSONCodec 默认实体编解码器
type JSONCodec struct {
	materialKinds map[string]bool

	mu         sync.Mutex
	geometries map[*Geometry]Record
}

// NewJSONCodec returns a codec recognizing the given custom material
// classes in addition to the built-in kinds.
func NewJSONCodec(materialKinds []string) *JSONCodec {
	c := &JSONCodec{
		materialKinds: make(map[string]bool),
		geometries:    make(map[*Geometry]Record),
	}
	for _, k := range materialKinds {
		c.materialKinds[k] = true
	}
	return c
}

func (c *JSONCodec) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.geometries = make(map[*Geometry]Record)
}

func nodeIDs(nodes []*Node) []string {
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

func parentID(n *Node) string {
	if n.Parent == nil {
		return ""
	}
	return n.Parent.ID
}

func (c *JSONCodec) SerializeNode(n *Node) (Record, error) {
	switch n.Kind {
	case NodeMesh:
		return c.serializeMesh(n)
	case NodeLight:
		return c.serializeLight(n)
	case NodeCamera:
		return c.serializeCamera(n)
	}
	return nil, fmt.Errorf("node %q: %w", n.Name, ErrUnknownKind)
}

func (c *JSONCodec) serializeGeometry(g *Geometry) (Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.geometries[g]; ok {
		return r, nil
	}
	r, err := toRecord(g)
	if err != nil {
		return nil, err
	}
	c.geometries[g] = r
	return r, nil
}

func (c *JSONCodec) serializeMesh(n *Node) (Record, error) {
	var d meshData
	if err := copier.Copy(&d, n); err != nil {
		return nil, fmt.Errorf("copy mesh %q: %w", n.Name, err)
	}
	d.ParentID = parentID(n)
	d.AnimationData = n.Animations
	d.ActionData = n.ActionManager
	if n.Material != nil {
		d.MaterialID = n.Material.ID
	}
	mesh, err := toRecord(&d)
	if err != nil {
		return nil, err
	}
	geometries := []any{}
	if n.Geometry != nil {
		mesh["geometryId"] = n.Geometry.ID
		g, err := c.serializeGeometry(n.Geometry)
		if err != nil {
			return nil, err
		}
		geometries = append(geometries, g)
	}
	snap := Record{"meshes": []any{mesh}, "geometries": geometries}
	if n.Material != nil {
		if err := c.serializeMeshMaterials(n.Material, snap); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

// serializeMeshMaterials 快照带上网格材质: 多重材质的子材质放在
// materials, 多重材质本身放在 multiMaterials
func (c *JSONCodec) serializeMeshMaterials(m *Material, snap Record) error {
	materials := []any{}
	plain := []*Material{m}
	if m.Kind == MaterialMulti {
		plain = m.SubMaterials
	}
	for _, sub := range plain {
		if sub == nil || sub.Kind == MaterialMulti {
			continue
		}
		rec, err := c.SerializeMaterial(sub)
		if err != nil {
			return err
		}
		materials = append(materials, rec)
	}
	snap["materials"] = materials
	if m.Kind == MaterialMulti {
		rec, err := c.SerializeMaterial(m)
		if err != nil {
			return err
		}
		snap["multiMaterials"] = []any{rec}
	}
	return nil
}

func (c *JSONCodec) serializeLight(n *Node) (Record, error) {
	var d lightData
	if err := copier.Copy(&d, n); err != nil {
		return nil, fmt.Errorf("copy light %q: %w", n.Name, err)
	}
	if n.Light != nil {
		if err := copier.Copy(&d, n.Light); err != nil {
			return nil, fmt.Errorf("copy light %q: %w", n.Name, err)
		}
	}
	d.ParentID = parentID(n)
	d.AnimationData = n.Animations
	return toRecord(&d)
}

func (c *JSONCodec) serializeCamera(n *Node) (Record, error) {
	var d cameraData
	if err := copier.Copy(&d, n); err != nil {
		return nil, fmt.Errorf("copy camera %q: %w", n.Name, err)
	}
	if n.Camera != nil {
		if err := copier.Copy(&d, n.Camera); err != nil {
			return nil, fmt.Errorf("copy camera %q: %w", n.Name, err)
		}
	}
	d.ParentID = parentID(n)
	d.AnimationData = n.Animations
	return toRecord(&d)
}

func (c *JSONCodec) SerializeMaterial(m *Material) (Record, error) {
	var d materialData
	if err := copier.Copy(&d, m); err != nil {
		return nil, fmt.Errorf("copy material %q: %w", m.Name, err)
	}
	d.CustomType = m.ClassName()
	for _, sub := range m.SubMaterials {
		if sub != nil {
			d.SubMaterialIDs = append(d.SubMaterialIDs, sub.ID)
		}
	}
	rec, err := toRecord(&d)
	if err != nil {
		return nil, err
	}
	for field, tex := range m.Textures {
		if tex == nil {
			continue
		}
		tr, err := c.SerializeTexture(tex)
		if err != nil {
			return nil, err
		}
		rec[field] = tr
	}
	return rec, nil
}

func (c *JSONCodec) SerializeTexture(t *Texture) (Record, error) {
	var d textureData
	if err := copier.Copy(&d, t); err != nil {
		return nil, fmt.Errorf("copy texture %q: %w", t.Name, err)
	}
	return toRecord(&d)
}

func (c *JSONCodec) SerializeParticleSystem(ps *ParticleSystem) (Record, error) {
	var d particleSystemData
	if err := copier.Copy(&d, ps); err != nil {
		return nil, fmt.Errorf("copy particle system %q: %w", ps.Name, err)
	}
	if ps.Emitter != nil {
		d.EmitterID = ps.Emitter.ID
	}
	if ps.Texture != nil {
		d.TextureName = ps.Texture.Name
	}
	d.AnimationData = ps.Animations
	return toRecord(&d)
}

func (c *JSONCodec) SerializeLensFlareSystem(lf *LensFlareSystem) (Record, error) {
	var d lensFlareSystemData
	if err := copier.Copy(&d, lf); err != nil {
		return nil, fmt.Errorf("copy lens flare system %q: %w", lf.Name, err)
	}
	if lf.Emitter != nil {
		d.EmitterID = lf.Emitter.ID
	}
	d.FlareData = make([]lensFlareData, 0, len(lf.Flares))
	for _, f := range lf.Flares {
		var fd lensFlareData
		if err := copier.Copy(&fd, f); err != nil {
			return nil, fmt.Errorf("copy lens flare: %w", err)
		}
		if f.Texture != nil {
			fd.TextureName = f.Texture.Name
		}
		d.FlareData = append(d.FlareData, fd)
	}
	return toRecord(&d)
}

func (c *JSONCodec) SerializeSound(s *Sound) (Record, error) {
	var d soundData
	if err := copier.Copy(&d, s); err != nil {
		return nil, fmt.Errorf("copy sound %q: %w", s.Name, err)
	}
	if s.AttachedNode != nil {
		d.ConnectedMeshID = s.AttachedNode.ID
	}
	return toRecord(&d)
}

func (c *JSONCodec) SerializeAnimation(a *Animation) (Record, error) {
	return toRecord(a)
}

func (c *JSONCodec) SerializeShadowGenerator(sg *ShadowGenerator) (Record, error) {
	var d shadowGeneratorData
	if err := copier.Copy(&d, sg); err != nil {
		return nil, fmt.Errorf("copy shadow generator: %w", err)
	}
	if sg.Light != nil {
		d.LightID = sg.Light.ID
	}
	d.MemberIDs = nodeIDs(sg.RenderList)
	return toRecord(&d)
}

func (c *JSONCodec) SerializeActionManager(am *ActionManager) (Record, error) {
	return toRecord(am)
}

func (c *JSONCodec) SerializeRenderTarget(rt *RenderTarget) (Record, error) {
	var d renderTargetData
	if err := copier.Copy(&d, rt); err != nil {
		return nil, fmt.Errorf("copy render target %q: %w", rt.Name, err)
	}
	d.MemberIDs = nodeIDs(rt.RenderList)
	return toRecord(&d)
}

func (c *JSONCodec) SerializeReflectionProbe(p *ReflectionProbe) (Record, error) {
	var d probeData
	if err := copier.Copy(&d, p); err != nil {
		return nil, fmt.Errorf("copy reflection probe %q: %w", p.Name, err)
	}
	d.MemberIDs = nodeIDs(p.RenderList)
	if p.AttachedMesh != nil {
		d.AttachedMeshID = p.AttachedMesh.ID
	}
	return toRecord(&d)
}

func (c *JSONCodec) SerializePostProcess(pp *PostProcess) (Record, error) {
	rec, err := Record(pp.Params).Clone()
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = Record{}
	}
	rec["className"] = pp.ClassName
	for field, tex := range pp.Textures {
		if tex == nil {
			continue
		}
		tr, err := c.SerializeTexture(tex)
		if err != nil {
			return nil, err
		}
		rec[field] = tr
	}
	return rec, nil
}

func (c *JSONCodec) ParseGeometry(rec Record) (*Geometry, error) {
	g := &Geometry{}
	if err := fromRecord(rec, g); err != nil {
		return nil, fmt.Errorf("parse geometry: %w", err)
	}
	if len(g.Normals) == 0 && len(g.Indices) > 0 {
		g.ComputeNormals()
	}
	return g, nil
}

func attachParent(n *Node, id string, res Resolver) {
	if id == "" || res == nil {
		return
	}
	if p := res.NodeByID(id); p != nil {
		p.AddChild(n)
	}
}

func (c *JSONCodec) ParseMesh(rec Record, res Resolver) (*Node, error) {
	var d meshData
	if err := fromRecord(rec, &d); err != nil {
		return nil, fmt.Errorf("parse mesh: %w", err)
	}
	n := NewMesh(d.Name)
	if err := copier.Copy(n, &d); err != nil {
		return nil, fmt.Errorf("copy mesh %q: %w", d.Name, err)
	}
	n.Animations = d.AnimationData
	n.ActionManager = d.ActionData
	if res != nil {
		if d.GeometryID != "" {
			n.Geometry = res.GeometryByID(d.GeometryID)
		}
		if d.MaterialID != "" {
			n.Material = res.MaterialByID(d.MaterialID)
		}
	}
	attachParent(n, d.ParentID, res)
	return n, nil
}

func (c *JSONCodec) ParseLight(rec Record, res Resolver) (*Node, error) {
	var d lightData
	if err := fromRecord(rec, &d); err != nil {
		return nil, fmt.Errorf("parse light: %w", err)
	}
	n := NewLight(d.Name, d.Type)
	if err := copier.Copy(n, &d); err != nil {
		return nil, fmt.Errorf("copy light %q: %w", d.Name, err)
	}
	if err := copier.Copy(n.Light, &d); err != nil {
		return nil, fmt.Errorf("copy light %q: %w", d.Name, err)
	}
	n.Animations = d.AnimationData
	attachParent(n, d.ParentID, res)
	return n, nil
}

func (c *JSONCodec) ParseCamera(rec Record, res Resolver) (*Node, error) {
	var d cameraData
	if err := fromRecord(rec, &d); err != nil {
		return nil, fmt.Errorf("parse camera: %w", err)
	}
	n := NewCamera(d.Name)
	if err := copier.Copy(n, &d); err != nil {
		return nil, fmt.Errorf("copy camera %q: %w", d.Name, err)
	}
	if err := copier.Copy(n.Camera, &d); err != nil {
		return nil, fmt.Errorf("copy camera %q: %w", d.Name, err)
	}
	n.Animations = d.AnimationData
	attachParent(n, d.ParentID, res)
	return n, nil
}

func (c *JSONCodec) materialKind(class string) (MaterialKind, bool) {
	switch class {
	case ClassStandardMaterial, "":
		return MaterialStandard, true
	case ClassPBRMaterial:
		return MaterialPBR, true
	case ClassMultiMaterial:
		return MaterialMulti, true
	}
	return MaterialCustom, c.materialKinds[class]
}

func isTextureRecord(v any) (Record, bool) {
	r, ok := asRecord(v)
	if !ok {
		return nil, false
	}
	_, ok = r["textureKind"]
	return r, ok
}

func (c *JSONCodec) ParseMaterial(rec Record, res Resolver) (*Material, error) {
	var d materialData
	if err := fromRecord(rec, &d); err != nil {
		return nil, fmt.Errorf("parse material: %w", err)
	}
	kind, ok := c.materialKind(d.CustomType)
	if !ok {
		return nil, fmt.Errorf("material %q class %q: %w", d.Name, d.CustomType, ErrUnknownKind)
	}
	m := NewMaterial(d.Name, kind)
	if err := copier.Copy(m, &d); err != nil {
		return nil, fmt.Errorf("copy material %q: %w", d.Name, err)
	}
	if kind == MaterialCustom {
		m.CustomClass = d.CustomType
	}
	if kind == MaterialMulti && res != nil {
		for _, id := range d.SubMaterialIDs {
			if sub := res.MaterialByID(id); sub != nil {
				m.SubMaterials = append(m.SubMaterials, sub)
			}
		}
	}
	for field, v := range rec {
		tr, ok := isTextureRecord(v)
		if !ok {
			continue
		}
		tex, err := c.ParseTexture(tr, res)
		if err != nil {
			return nil, fmt.Errorf("material %q field %s: %w", d.Name, field, err)
		}
		m.SetTexture(field, tex)
	}
	return m, nil
}

func (c *JSONCodec) ParseTexture(rec Record, res Resolver) (*Texture, error) {
	var d textureData
	if err := fromRecord(rec, &d); err != nil {
		return nil, fmt.Errorf("parse texture: %w", err)
	}
	switch d.Kind {
	case TextureRenderTarget:
		if res != nil {
			if rt := res.RenderTargetByName(d.Name); rt != nil && rt.Texture != nil {
				return rt.Texture, nil
			}
		}
	case TextureProbe:
		if res != nil {
			if p := res.ProbeByName(d.Name); p != nil && p.CubeTexture != nil {
				return p.CubeTexture, nil
			}
		}
	}
	if data := rec.String(FieldBase64String); data != "" {
		t, err := TextureFromBase64(d.Name, data)
		if err != nil {
			return nil, err
		}
		t.URL, t.Kind, t.Level, t.HasAlpha = d.URL, d.Kind, d.Level, d.HasAlpha
		if t.Width == 0 {
			t.Width, t.Height = d.Width, d.Height
		}
		return t, nil
	}
	t := NewTexture(d.Name)
	if err := copier.Copy(t, &d); err != nil {
		return nil, fmt.Errorf("copy texture %q: %w", d.Name, err)
	}
	return t, nil
}

func (c *JSONCodec) ParseParticleSystem(rec Record, res Resolver) (*ParticleSystem, error) {
	var d particleSystemData
	if err := fromRecord(rec, &d); err != nil {
		return nil, fmt.Errorf("parse particle system: %w", err)
	}
	ps := &ParticleSystem{}
	if err := copier.Copy(ps, &d); err != nil {
		return nil, fmt.Errorf("copy particle system %q: %w", d.Name, err)
	}
	if d.EmitterID != "" && res != nil {
		ps.Emitter = res.NodeByID(d.EmitterID)
	}
	if d.TextureName != "" {
		ps.Texture = NewTexture(d.TextureName)
	}
	ps.Animations = d.AnimationData
	return ps, nil
}

func (c *JSONCodec) ParseLensFlareSystem(rec Record, res Resolver) (*LensFlareSystem, error) {
	var d lensFlareSystemData
	if err := fromRecord(rec, &d); err != nil {
		return nil, fmt.Errorf("parse lens flare system: %w", err)
	}
	lf := &LensFlareSystem{}
	if err := copier.Copy(lf, &d); err != nil {
		return nil, fmt.Errorf("copy lens flare system %q: %w", d.Name, err)
	}
	if d.EmitterID != "" && res != nil {
		lf.Emitter = res.NodeByID(d.EmitterID)
	}
	for _, fd := range d.FlareData {
		f := &LensFlare{}
		if err := copier.Copy(f, &fd); err != nil {
			return nil, fmt.Errorf("copy lens flare: %w", err)
		}
		if fd.TextureName != "" {
			f.Texture = NewTexture(fd.TextureName)
		}
		lf.Flares = append(lf.Flares, f)
	}
	return lf, nil
}

// ParseSound names the sound after its url, the display name is up to the
// caller.
func (c *JSONCodec) ParseSound(rec Record, res Resolver) (*Sound, error) {
	var d soundData
	if err := fromRecord(rec, &d); err != nil {
		return nil, fmt.Errorf("parse sound: %w", err)
	}
	s := &Sound{}
	if err := copier.Copy(s, &d); err != nil {
		return nil, fmt.Errorf("copy sound %q: %w", d.Name, err)
	}
	if d.URL != "" {
		s.Name = path.Base(d.URL)
	}
	if d.ConnectedMeshID != "" && res != nil {
		s.AttachedNode = res.NodeByID(d.ConnectedMeshID)
	}
	return s, nil
}

func (c *JSONCodec) ParseAnimation(rec Record) (*Animation, error) {
	a := &Animation{}
	if err := fromRecord(rec, a); err != nil {
		return nil, fmt.Errorf("parse animation: %w", err)
	}
	return a, nil
}

func (c *JSONCodec) ParseShadowGenerator(rec Record, res Resolver) (*ShadowGenerator, []string, error) {
	var d shadowGeneratorData
	if err := fromRecord(rec, &d); err != nil {
		return nil, nil, fmt.Errorf("parse shadow generator: %w", err)
	}
	sg := &ShadowGenerator{}
	if err := copier.Copy(sg, &d); err != nil {
		return nil, nil, fmt.Errorf("copy shadow generator: %w", err)
	}
	if res == nil {
		return sg, d.MemberIDs, nil
	}
	sg.Light = res.NodeByID(d.LightID)
	var dropped []string
	for _, id := range d.MemberIDs {
		if n := res.NodeByID(id); n != nil {
			sg.RenderList = append(sg.RenderList, n)
		} else {
			dropped = append(dropped, id)
		}
	}
	return sg, dropped, nil
}

func (c *JSONCodec) ParseActionManager(rec Record) (*ActionManager, error) {
	am := &ActionManager{}
	if err := fromRecord(rec, am); err != nil {
		return nil, fmt.Errorf("parse action manager: %w", err)
	}
	return am, nil
}

func (c *JSONCodec) ParseRenderTarget(rec Record) (*RenderTarget, error) {
	var d renderTargetData
	if err := fromRecord(rec, &d); err != nil {
		return nil, fmt.Errorf("parse render target: %w", err)
	}
	rt := &RenderTarget{}
	if err := copier.Copy(rt, &d); err != nil {
		return nil, fmt.Errorf("copy render target %q: %w", d.Name, err)
	}
	rt.Texture = &Texture{Name: rt.Name, Kind: TextureRenderTarget, Width: rt.Size, Height: rt.Size, Level: 1}
	return rt, nil
}

func (c *JSONCodec) ParseReflectionProbe(rec Record) (*ReflectionProbe, error) {
	var d probeData
	if err := fromRecord(rec, &d); err != nil {
		return nil, fmt.Errorf("parse reflection probe: %w", err)
	}
	p := &ReflectionProbe{}
	if err := copier.Copy(p, &d); err != nil {
		return nil, fmt.Errorf("copy reflection probe %q: %w", d.Name, err)
	}
	p.CubeTexture = &Texture{Name: p.Name, Kind: TextureProbe, Width: p.Size, Height: p.Size, Level: 1}
	return p, nil
}
