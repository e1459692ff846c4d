package editproj

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gltfNode(doc *gltf.Document, name string) *gltf.Node {
	for _, n := range doc.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// TestSceneRoundTrip 导出 glTF 后读回基础场景
func TestSceneRoundTrip(t *testing.T) {
	for _, binary := range []bool{true, false} {
		name := "gltf"
		if binary {
			name = "glb"
		}
		t.Run(name, func(t *testing.T) {
			sess := newTestSession()
			scn := baseScene()
			scn.CameraByName("camera").Camera.Fov = 1.1
			scn.MeshByName("ground").Position = vec3.T{0, -1, 2}

			doc, err := ExportScene(sess, scn)
			require.NoError(t, err)
			assert.Nil(t, gltfNode(doc, "EditorCamera"))

			var buf bytes.Buffer
			require.NoError(t, WriteScene(&buf, doc, binary))
			got, err := ReadBaseScene(&buf)
			require.NoError(t, err)

			assert.Equal(t, "base", got.Name)
			assert.Nil(t, got.CameraByName("EditorCamera"))

			ground := got.MeshByName("ground")
			require.NotNil(t, ground)
			assert.Equal(t, "ground-id", ground.ID)
			assert.Equal(t, vec3.T{0, -1, 2}, ground.Position)
			require.NotNil(t, ground.Geometry)
			assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, ground.Geometry.Indices)
			assert.Equal(t, quadGeometry("").Positions, ground.Geometry.Positions)
			assert.Equal(t, []vec2.T{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, ground.Geometry.UVs)
			require.Len(t, ground.Geometry.Normals, 4)
			for _, n := range ground.Geometry.Normals {
				assert.InDelta(t, 1, n[2], 1e-6)
			}
			require.NotNil(t, ground.Material)
			assert.Equal(t, "groundMat-id", ground.Material.ID)
			assert.Equal(t, MaterialStandard, ground.Material.Kind)
			assert.Contains(t, got.Materials, ground.Material)

			box := got.MeshByName("box")
			require.NotNil(t, box)
			assert.Equal(t, "box-id", box.ID)
			assert.Same(t, ground, box.Parent)
			assert.Equal(t, vec3.T{0, 1, 0}, box.Position)
			require.NotNil(t, box.Geometry)
			assert.Len(t, box.Geometry.Positions, 4)
			assert.Nil(t, box.Material)

			sun := got.LightByName("sun")
			require.NotNil(t, sun)
			assert.Equal(t, "sun-id", sun.ID)
			assert.Equal(t, LIGHT_TYPE_DIRECTIONAL, sun.Light.Type)

			cam := got.CameraByName("camera")
			require.NotNil(t, cam)
			assert.Equal(t, "camera-id", cam.ID)
			assert.Equal(t, float32(1.1), cam.Camera.Fov)
			assert.Equal(t, float32(10000), cam.Camera.MaxZ)

			assert.Len(t, got.Geometries, 2)
			assert.Empty(t, scn.Geometries[0].Normals, "source geometry is untouched")
		})
	}
}

func TestExportSceneAutoAnimate(t *testing.T) {
	sess := newTestSession()
	scn := baseScene()
	box := scn.MeshByName("box")
	box.Animations = []*Animation{modifiedAnimation(sess, "hover")}
	snd := &Sound{Name: "wind", URL: "audio/wind.mp3", AttachedNode: box}
	scn.Sounds = append(scn.Sounds, snd)
	spark := retainedTexture(t, "spark.png")
	scn.ParticleSystems = append(scn.ParticleSystems, &ParticleSystem{ID: "ps", Name: "sparks", Emitter: box, Texture: spark})

	sess.Playback.Speed = 0.5
	sess.Playback.Add(box)
	sess.Playback.Add(snd)

	doc, err := ExportScene(sess, scn)
	require.NoError(t, err)

	extras, ok := gltfNode(doc, "box").Extras.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "box-id", extras["id"])
	assert.Equal(t, true, extras["autoAnimate"])
	assert.Equal(t, float32(0), extras["autoAnimateFrom"])
	assert.Equal(t, float32(60), extras["autoAnimateTo"])
	assert.Equal(t, true, extras["autoAnimateLoop"])

	groundExtras := gltfNode(doc, "ground").Extras.(map[string]any)
	assert.Equal(t, false, groundExtras["autoAnimate"])
	assert.NotContains(t, groundExtras, "autoAnimateTo")

	sceneExtras, ok := doc.Scenes[0].Extras.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float32(0.5), sceneExtras["globalAnimationSpeed"])
	assert.Equal(t, false, sceneExtras["autoAnimate"])

	sounds := sceneExtras["sounds"].([]map[string]any)
	require.Len(t, sounds, 1)
	assert.Equal(t, true, sounds[0]["autoplay"])
	assert.Equal(t, "box-id", sounds[0]["connectedMeshId"])

	systems := sceneExtras["particleSystems"].([]map[string]any)
	require.Len(t, systems, 1)
	ps := Record(systems[0])
	assert.Equal(t, spark.Base64(), ps.String(FieldBase64Texture))
	assert.Equal(t, "box-id", ps.String("emitterId"))
	assert.Equal(t, false, ps["autoAnimate"])
}

func TestExportSceneTexture(t *testing.T) {
	sess := newTestSession()
	scn := baseScene()
	m := NewMaterial("painted", MaterialPBR)
	m.Alpha = 0.5
	m.SetTexture("albedoTexture", retainedTexture(t, "paint.png"))
	scn.MeshByName("box").Material = m
	scn.MeshByName("ground").Material = m

	doc, err := ExportScene(sess, scn)
	require.NoError(t, err)
	require.Len(t, doc.Materials, 1)
	assert.Len(t, doc.Meshes, 1, "meshes sharing geometry and material are written once")
	assert.Equal(t, gltf.AlphaBlend, doc.Materials[0].AlphaMode)
	require.Len(t, doc.Images, 1)
	assert.True(t, strings.HasPrefix(doc.Images[0].URI, "data:image/png;base64,"))
	require.NotNil(t, doc.Materials[0].PBRMetallicRoughness.BaseColorTexture)
}

func TestGetGltfBinary(t *testing.T) {
	doc, err := ExportScene(newTestSession(), baseScene())
	require.NoError(t, err)

	for _, unit := range []int{0, 4, 8, 16} {
		data, err := GetGltfBinary(doc, unit)
		require.NoError(t, err)
		assert.Equal(t, "glTF", string(data[:4]))
		if unit > 0 {
			assert.Zero(t, len(data)%unit)
		}
	}
}

func TestCalcPadding(t *testing.T) {
	tests := []struct {
		offset, unit, want int
	}{
		{0, 4, 0},
		{5, 4, 3},
		{8, 4, 0},
		{9, 8, 7},
		{7, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, calcPadding(tt.offset, tt.unit), "%d/%d", tt.offset, tt.unit)
	}
}

func TestReadBaseSceneInvalid(t *testing.T) {
	_, err := ReadBaseScene(strings.NewReader("not a gltf"))
	assert.Error(t, err)
}

// interleavedDoc 位置和法线交错存放在同一个 buffer view 中
func interleavedDoc(t *testing.T) *gltf.Document {
	t.Helper()
	var vb bytes.Buffer
	positions := []vec3.T{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	for _, p := range positions {
		require.NoError(t, binary.Write(&vb, binary.LittleEndian, p))
		require.NoError(t, binary.Write(&vb, binary.LittleEndian, vec3.T{0, 0, 1}))
	}
	vertexLen := uint32(vb.Len())
	require.NoError(t, binary.Write(&vb, binary.LittleEndian, []uint16{0, 1, 2}))
	data := vb.Bytes()

	return &gltf.Document{
		Buffers: []*gltf.Buffer{{ByteLength: uint32(len(data)), Data: data}},
		BufferViews: []*gltf.BufferView{
			{Buffer: 0, ByteLength: vertexLen, ByteStride: 24},
			{Buffer: 0, ByteOffset: vertexLen, ByteLength: 6},
		},
		Accessors: []*gltf.Accessor{
			{BufferView: index(0), ComponentType: gltf.ComponentFloat, Count: 3, Type: gltf.AccessorVec3},
			{BufferView: index(0), ByteOffset: 12, ComponentType: gltf.ComponentFloat, Count: 3, Type: gltf.AccessorVec3},
			{BufferView: index(1), ComponentType: gltf.ComponentUshort, Count: 3, Type: gltf.AccessorScalar},
		},
		Meshes: []*gltf.Mesh{{
			Name: "tri",
			Primitives: []*gltf.Primitive{{
				Attributes: map[string]uint32{gltf.POSITION: 0, gltf.NORMAL: 1},
				Indices:    index(2),
			}},
		}},
		Nodes:  []*gltf.Node{{Name: "tri", Mesh: index(0)}},
		Scenes: []*gltf.Scene{{Name: "strided", Nodes: []uint32{0}}},
	}
}

func TestReadInterleaved(t *testing.T) {
	scn, err := sceneFromDoc(interleavedDoc(t))
	require.NoError(t, err)
	tri := scn.MeshByName("tri")
	require.NotNil(t, tri)
	require.NotNil(t, tri.Geometry)
	assert.Equal(t, []vec3.T{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, tri.Geometry.Positions)
	assert.Equal(t, []vec3.T{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}}, tri.Geometry.Normals)
	assert.Equal(t, []uint32{0, 1, 2}, tri.Geometry.Indices)
}

func TestReadBadAccessors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc *gltf.Document)
	}{
		{"indices out of range", func(doc *gltf.Document) {
			doc.Meshes[0].Primitives[0].Indices = index(99)
		}},
		{"position out of range", func(doc *gltf.Document) {
			doc.Meshes[0].Primitives[0].Attributes[gltf.POSITION] = 42
		}},
		{"stride past view", func(doc *gltf.Document) {
			doc.BufferViews[0].ByteStride = 40
		}},
		{"missing buffer view", func(doc *gltf.Document) {
			doc.Accessors[2].BufferView = nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := interleavedDoc(t)
			tt.mutate(doc)
			require.NotPanics(t, func() {
				_, err := sceneFromDoc(doc)
				assert.Error(t, err)
			})
		})
	}
}
