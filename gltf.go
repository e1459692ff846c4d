package editproj

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/flywave/go3d/quaternion"
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

const (
	// GLTFVersion 定义GLTF规范版本
	GLTFVersion = "2.0"

	// PaddingChar 用于二进制填充的字符
	PaddingChar = 0x20
)

func index(i uint32) *uint32 {
	return &i
}

// CreateDoc 创建一个新的GLTF文档
func CreateDoc(name string) *gltf.Document {
	doc := &gltf.Document{
		Asset: gltf.Asset{
			Version:   GLTFVersion,
			Generator: "go-editproj",
		},
		Scenes: []*gltf.Scene{{Name: name}},
	}
	doc.Scene = index(0)
	return doc
}

type meshKey struct {
	geometry *Geometry
	material *Material
}

type sceneWriter struct {
	sess *Session
	scn  *Scene
	doc  *gltf.Document

	editorCam *Node
	meshes    map[meshKey]uint32
	materials map[*Material]uint32
	textures  map[*Texture]uint32
}

// ExportScene 导出整个场景为 glTF, 自动播放信息写入各对象的 extras
func ExportScene(sess *Session, scn *Scene) (*gltf.Document, error) {
	w := &sceneWriter{
		sess:      sess,
		scn:       scn,
		doc:       CreateDoc(scn.Name),
		editorCam: sess.editorCamera(scn),
		meshes:    make(map[meshKey]uint32),
		materials: make(map[*Material]uint32),
		textures:  make(map[*Texture]uint32),
	}
	root := w.doc.Scenes[0]
	for _, n := range scn.RootNodes() {
		idx, ok, err := w.node(n)
		if err != nil {
			return nil, err
		}
		if ok {
			root.Nodes = append(root.Nodes, idx)
		}
	}

	extras := map[string]any{
		"globalAnimationSpeed": sess.Playback.Speed,
		"framesPerSecond":      sess.Playback.FramesPerSecond,
	}
	w.autoAnimate(extras, scn, scn.Animations)

	sounds := []map[string]any{}
	for _, snd := range scn.Sounds {
		sx := map[string]any{
			"name":     snd.Name,
			"url":      snd.URL,
			"volume":   snd.Volume,
			"loop":     snd.Loop,
			"autoplay": snd.Autoplay || sess.Playback.Contains(snd),
		}
		if snd.AttachedNode != nil {
			sx["connectedMeshId"] = snd.AttachedNode.ID
		}
		w.autoAnimate(sx, snd, snd.Animations)
		sounds = append(sounds, sx)
	}
	extras["sounds"] = sounds

	systems := []map[string]any{}
	for _, ps := range scn.ParticleSystems {
		rec, err := sess.Codec.SerializeParticleSystem(ps)
		if err != nil {
			return nil, fmt.Errorf("particle system %q: %w", ps.Name, err)
		}
		inlineParticleTexture(ps, rec)
		stripSnapshot(rec)
		w.autoAnimate(rec, ps, ps.Animations)
		systems = append(systems, rec)
	}
	extras["particleSystems"] = systems
	root.Extras = extras
	return w.doc, nil
}

// autoAnimate injects the auto-play metadata of obj into extras.
func (w *sceneWriter) autoAnimate(extras map[string]any, obj any, anims []*Animation) {
	on := w.sess.Playback.Contains(obj)
	extras["autoAnimate"] = on
	if !on {
		return
	}
	loop := false
	first := true
	var from, to float32
	for _, a := range anims {
		f, t := a.Range()
		if first || f < from {
			from = f
		}
		if first || t > to {
			to = t
		}
		first = false
		loop = loop || a.LoopMode == ANIMATION_LOOP_CYCLE
	}
	extras["autoAnimateFrom"] = from
	extras["autoAnimateTo"] = to
	extras["autoAnimateLoop"] = loop
}

func (w *sceneWriter) node(n *Node) (uint32, bool, error) {
	if n == w.editorCam {
		return 0, false, nil
	}
	gn := &gltf.Node{
		Name:        n.Name,
		Translation: [3]float32(n.Position),
		Rotation:    [4]float32(n.Rotation),
		Scale:       [3]float32(n.Scaling),
	}
	extras := map[string]any{
		"id":        n.ID,
		"kind":      n.Kind.String(),
		"isVisible": n.Visible,
	}
	switch n.Kind {
	case NodeMesh:
		if n.Geometry != nil {
			mi, err := w.mesh(n)
			if err != nil {
				return 0, false, err
			}
			gn.Mesh = index(mi)
		}
	case NodeLight:
		if n.Light != nil {
			extras["light"] = n.Light
		}
	case NodeCamera:
		gn.Camera = index(w.camera(n))
	}
	w.autoAnimate(extras, n, n.Animations)
	gn.Extras = extras

	idx := uint32(len(w.doc.Nodes))
	w.doc.Nodes = append(w.doc.Nodes, gn)
	for _, c := range n.Children {
		ci, ok, err := w.node(c)
		if err != nil {
			return 0, false, err
		}
		if ok {
			gn.Children = append(gn.Children, ci)
		}
	}
	return idx, true, nil
}

func (w *sceneWriter) camera(n *Node) uint32 {
	p := &gltf.Perspective{Yfov: 0.8, Znear: 1}
	if n.Camera != nil {
		p.Yfov, p.Znear = n.Camera.Fov, n.Camera.MinZ
		zfar := n.Camera.MaxZ
		p.Zfar = &zfar
	}
	w.doc.Cameras = append(w.doc.Cameras, &gltf.Camera{Name: n.Name, Perspective: p})
	return uint32(len(w.doc.Cameras) - 1)
}

func (w *sceneWriter) mesh(n *Node) (uint32, error) {
	g := n.Geometry
	key := meshKey{g, n.Material}
	if idx, ok := w.meshes[key]; ok {
		return idx, nil
	}

	positions := make([][3]float32, len(g.Positions))
	for i := range g.Positions {
		positions[i] = g.Positions[i]
	}
	attrs := map[string]uint32{
		gltf.POSITION: modeler.WritePosition(w.doc, positions),
	}
	src := g.Normals
	if len(src) != len(g.Positions) && len(g.Indices) > 0 {
		tmp := *g
		tmp.ComputeNormals()
		src = tmp.Normals
	}
	if len(src) == len(g.Positions) && len(src) > 0 {
		normals := make([][3]float32, len(src))
		for i := range src {
			normals[i] = src[i]
		}
		attrs[gltf.NORMAL] = modeler.WriteNormal(w.doc, normals)
	}
	if len(g.UVs) == len(g.Positions) && len(g.UVs) > 0 {
		uvs := make([][2]float32, len(g.UVs))
		for i := range g.UVs {
			uvs[i] = g.UVs[i]
		}
		attrs[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(w.doc, uvs)
	}
	prim := &gltf.Primitive{Attributes: attrs}
	if len(g.Indices) > 0 {
		prim.Indices = index(modeler.WriteIndices(w.doc, g.Indices))
	}
	if n.Material != nil {
		prim.Material = index(w.material(n.Material))
	}
	w.doc.Meshes = append(w.doc.Meshes, &gltf.Mesh{Name: n.Name, Primitives: []*gltf.Primitive{prim}})
	idx := uint32(len(w.doc.Meshes) - 1)
	w.meshes[key] = idx
	return idx, nil
}

func (w *sceneWriter) material(m *Material) uint32 {
	if idx, ok := w.materials[m]; ok {
		return idx
	}
	color := [4]float32{m.Diffuse[0], m.Diffuse[1], m.Diffuse[2], m.Alpha}
	gm := &gltf.Material{
		Name:                 m.Name,
		EmissiveFactor:       m.Emissive,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorFactor: &color},
		Extras:               map[string]any{"id": m.ID, "customType": m.ClassName()},
	}
	if m.Alpha < 1 {
		gm.AlphaMode = gltf.AlphaBlend
	}
	for _, field := range []string{"diffuseTexture", "albedoTexture", "baseColorTexture"} {
		tex := m.Textures[field]
		if !tex.HasBuffer() {
			continue
		}
		ti := w.texture(tex)
		gm.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: ti}
		break
	}
	w.doc.Materials = append(w.doc.Materials, gm)
	idx := uint32(len(w.doc.Materials) - 1)
	w.materials[m] = idx
	return idx
}

func (w *sceneWriter) texture(t *Texture) uint32 {
	if idx, ok := w.textures[t]; ok {
		return idx
	}
	w.doc.Images = append(w.doc.Images, &gltf.Image{
		Name: t.Name,
		URI:  "data:" + t.MimeType() + ";base64," + t.Base64(),
	})
	w.doc.Textures = append(w.doc.Textures, &gltf.Texture{
		Name:   t.Name,
		Source: index(uint32(len(w.doc.Images) - 1)),
	})
	idx := uint32(len(w.doc.Textures) - 1)
	w.textures[t] = idx
	return idx
}

// WriteScene 编码 glTF 文档, binary 为 true 时写出 GLB
func WriteScene(wr io.Writer, doc *gltf.Document, binary bool) error {
	if !binary {
		for _, b := range doc.Buffers {
			if b.URI == "" && len(b.Data) > 0 {
				b.EmbeddedResource()
			}
		}
	}
	enc := gltf.NewEncoder(wr)
	enc.AsBinary = binary
	return enc.Encode(doc)
}

// GetGltfBinary 将GLTF文档编码为二进制格式, 按 paddingUnit 对齐
func GetGltfBinary(doc *gltf.Document, paddingUnit int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := WriteScene(buf, doc, true); err != nil {
		return nil, err
	}
	if padding := calcPadding(buf.Len(), paddingUnit); padding > 0 {
		buf.Write(bytes.Repeat([]byte{PaddingChar}, padding))
	}
	return buf.Bytes(), nil
}

// calcPadding 计算需要的填充字节数
func calcPadding(offset, unit int) int {
	if unit <= 0 {
		return 0
	}
	padding := offset % unit
	if padding != 0 {
		padding = unit - padding
	}
	return padding
}

// ReadBaseScene builds a base scene from a glTF document. Node ids come
// from the extras written by ExportScene, or are generated. Materials are
// read as standard materials.
func ReadBaseScene(r io.Reader) (*Scene, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, err
	}
	return sceneFromDoc(doc)
}

func sceneFromDoc(doc *gltf.Document) (*Scene, error) {
	rd := &sceneReader{
		doc:       doc,
		materials: make(map[uint32]*Material),
		meshes:    make(map[uint32]*Geometry),
	}
	name := ""
	var roots []uint32
	if len(doc.Scenes) > 0 {
		sc := doc.Scenes[0]
		if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
			sc = doc.Scenes[*doc.Scene]
		}
		name, roots = sc.Name, sc.Nodes
	}
	rd.scn = NewScene(name)
	for _, ni := range roots {
		if _, err := rd.node(ni, nil); err != nil {
			return nil, err
		}
	}
	return rd.scn, nil
}

type sceneReader struct {
	doc       *gltf.Document
	scn       *Scene
	materials map[uint32]*Material
	meshes    map[uint32]*Geometry
}

func (rd *sceneReader) node(ni uint32, parent *Node) (*Node, error) {
	if int(ni) >= len(rd.doc.Nodes) {
		return nil, fmt.Errorf("gltf node %d out of range", ni)
	}
	gn := rd.doc.Nodes[ni]
	extras, _ := gn.Extras.(map[string]any)

	var n *Node
	switch {
	case gn.Camera != nil:
		n = NewCamera(gn.Name)
		if int(*gn.Camera) < len(rd.doc.Cameras) {
			if p := rd.doc.Cameras[*gn.Camera].Perspective; p != nil {
				n.Camera.Fov, n.Camera.MinZ = p.Yfov, p.Znear
				if p.Zfar != nil {
					n.Camera.MaxZ = *p.Zfar
				}
			}
		}
	case extras["light"] != nil:
		n = NewLight(gn.Name, LIGHT_TYPE_POINT)
		if lr, ok := asRecord(extras["light"]); ok {
			if err := fromRecord(lr, n.Light); err != nil {
				return nil, fmt.Errorf("gltf light %q: %w", gn.Name, err)
			}
		}
	default:
		n = NewMesh(gn.Name)
		if gn.Mesh != nil {
			if err := rd.mesh(n, *gn.Mesh); err != nil {
				return nil, err
			}
		}
	}
	if id, ok := extras["id"].(string); ok && id != "" {
		n.ID = id
	}
	if v, ok := extras["isVisible"].(bool); ok {
		n.Visible = v
	}
	n.Position = vec3.T(gn.Translation)
	n.Rotation = quaternion.T(gn.Rotation)
	n.Scaling = vec3.T(gn.Scale)
	if parent != nil {
		parent.AddChild(n)
	}
	rd.scn.AddNode(n)
	for _, ci := range gn.Children {
		if _, err := rd.node(ci, n); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (rd *sceneReader) mesh(n *Node, mi uint32) error {
	if int(mi) >= len(rd.doc.Meshes) {
		return fmt.Errorf("gltf mesh %d out of range", mi)
	}
	gm := rd.doc.Meshes[mi]
	if len(gm.Primitives) == 0 {
		return nil
	}
	ps := gm.Primitives[0]
	if g, ok := rd.meshes[mi]; ok {
		n.Geometry = g
	} else {
		g := &Geometry{ID: NewID()}
		if idx, ok := ps.Attributes[gltf.POSITION]; ok {
			if err := readAccessor(rd.doc, idx, func(r io.Reader) error {
				v := vec3.T{}
				err := binary.Read(r, binary.LittleEndian, &v)
				g.Positions = append(g.Positions, v)
				return err
			}); err != nil {
				return err
			}
		}
		if idx, ok := ps.Attributes[gltf.NORMAL]; ok {
			if err := readAccessor(rd.doc, idx, func(r io.Reader) error {
				v := vec3.T{}
				err := binary.Read(r, binary.LittleEndian, &v)
				g.Normals = append(g.Normals, v)
				return err
			}); err != nil {
				return err
			}
		}
		if idx, ok := ps.Attributes[gltf.TEXCOORD_0]; ok {
			if err := readAccessor(rd.doc, idx, func(r io.Reader) error {
				v := vec2.T{}
				err := binary.Read(r, binary.LittleEndian, &v)
				g.UVs = append(g.UVs, v)
				return err
			}); err != nil {
				return err
			}
		}
		if ps.Indices != nil {
			if err := rd.indices(g, *ps.Indices); err != nil {
				return err
			}
		}
		rd.meshes[mi] = g
		rd.scn.Geometries = append(rd.scn.Geometries, g)
		n.Geometry = g
	}
	if ps.Material != nil {
		n.Material = rd.material(*ps.Material)
	}
	return nil
}

func (rd *sceneReader) indices(g *Geometry, ai uint32) error {
	if int(ai) >= len(rd.doc.Accessors) {
		return fmt.Errorf("gltf indices accessor %d out of range", ai)
	}
	acc := rd.doc.Accessors[ai]
	return readAccessor(rd.doc, ai, func(r io.Reader) error {
		switch acc.ComponentType {
		case gltf.ComponentUbyte:
			var v uint8
			err := binary.Read(r, binary.LittleEndian, &v)
			g.Indices = append(g.Indices, uint32(v))
			return err
		case gltf.ComponentUshort:
			var v uint16
			err := binary.Read(r, binary.LittleEndian, &v)
			g.Indices = append(g.Indices, uint32(v))
			return err
		}
		var v uint32
		err := binary.Read(r, binary.LittleEndian, &v)
		g.Indices = append(g.Indices, v)
		return err
	})
}

func (rd *sceneReader) material(mi uint32) *Material {
	if m, ok := rd.materials[mi]; ok {
		return m
	}
	if int(mi) >= len(rd.doc.Materials) {
		return nil
	}
	gm := rd.doc.Materials[mi]
	m := NewMaterial(gm.Name, MaterialStandard)
	if extras, ok := gm.Extras.(map[string]any); ok {
		if id, ok := extras["id"].(string); ok && id != "" {
			m.ID = id
		}
	}
	m.Emissive = gm.EmissiveFactor
	if pbr := gm.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		c := *pbr.BaseColorFactor
		m.Diffuse = [3]float32{c[0], c[1], c[2]}
		m.Alpha = c[3]
	}
	rd.materials[mi] = m
	rd.scn.Materials = append(rd.scn.Materials, m)
	return m
}

var errBadAccessor = errors.New("gltf accessor without buffer data")

func componentSize(c gltf.ComponentType) int {
	switch c {
	case gltf.ComponentByte, gltf.ComponentUbyte:
		return 1
	case gltf.ComponentShort, gltf.ComponentUshort:
		return 2
	}
	return 4
}

func componentCount(t gltf.AccessorType) int {
	switch t {
	case gltf.AccessorVec2:
		return 2
	case gltf.AccessorVec3:
		return 3
	case gltf.AccessorVec4, gltf.AccessorMat2:
		return 4
	case gltf.AccessorMat3:
		return 9
	case gltf.AccessorMat4:
		return 16
	}
	return 1
}

// readAccessor calls read once per element of accessor ai, stepping by the
// buffer view stride when the view is interleaved.
func readAccessor(doc *gltf.Document, ai uint32, read func(io.Reader) error) error {
	if int(ai) >= len(doc.Accessors) {
		return errBadAccessor
	}
	acc := doc.Accessors[ai]
	if acc.BufferView == nil || int(*acc.BufferView) >= len(doc.BufferViews) {
		return errBadAccessor
	}
	view := doc.BufferViews[*acc.BufferView]
	if int(view.Buffer) >= len(doc.Buffers) {
		return errBadAccessor
	}
	data := doc.Buffers[view.Buffer].Data
	start := int(view.ByteOffset + acc.ByteOffset)
	end := int(view.ByteOffset + view.ByteLength)
	if start > len(data) || end > len(data) || start > end {
		return errBadAccessor
	}
	size := componentSize(acc.ComponentType) * componentCount(acc.Type)
	stride := int(view.ByteStride)
	if stride == 0 {
		stride = size
	}
	for i := 0; i < int(acc.Count); i++ {
		off := start + i*stride
		if off+size > end {
			return errBadAccessor
		}
		if err := read(bytes.NewReader(data[off : off+size])); err != nil {
			return err
		}
	}
	return nil
}
