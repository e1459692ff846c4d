package editproj

import (
	"encoding/json"
	"testing"

	"github.com/flywave/go3d/vec3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonRoundTrip(t *testing.T, rec Record) Record {
	t.Helper()
	bt, err := json.Marshal(rec)
	require.NoError(t, err)
	var out Record
	require.NoError(t, json.Unmarshal(bt, &out))
	return out
}

// TestCodecMesh 测试网格快照
func TestCodecMesh(t *testing.T) {
	c := NewJSONCodec(nil)
	scn := baseScene()
	box := scn.MeshByName("box")
	box.Animations = []*Animation{{Name: "spin", Keys: []AnimationKey{{Frame: 0, Values: []float32{0}}}}}

	snap, err := c.SerializeNode(box)
	require.NoError(t, err)
	meshes := snap.Records("meshes")
	require.Len(t, meshes, 1)
	assert.Equal(t, "box", meshes[0].String("name"))
	assert.Equal(t, "ground-id", meshes[0].String("parentId"))
	assert.Equal(t, "quad", meshes[0].String("geometryId"))
	assert.Contains(t, meshes[0], "animations")
	require.Len(t, snap.Records("geometries"), 1)
	assert.Len(t, c.geometries, 1)

	_, err = c.SerializeNode(scn.MeshByName("ground"))
	require.NoError(t, err)
	assert.Len(t, c.geometries, 1, "shared geometry is serialized once")
	c.ClearCache()
	assert.Empty(t, c.geometries)

	target := NewScene("target")
	ground := NewMesh("ground")
	ground.ID = "ground-id"
	target.AddNode(ground)
	snap = jsonRoundTrip(t, snap)
	g, err := c.ParseGeometry(snap.Records("geometries")[0])
	require.NoError(t, err)
	assert.Len(t, g.Normals, 4, "missing normals are computed")
	assert.InDelta(t, 1, g.Normals[0][2], 1e-6)
	target.Geometries = append(target.Geometries, g)

	n, err := c.ParseMesh(snap.Records("meshes")[0], target)
	require.NoError(t, err)
	assert.Equal(t, "box-id", n.ID)
	assert.Equal(t, vec3.T{0, 1, 0}, n.Position)
	assert.Same(t, ground, n.Parent)
	assert.Same(t, g, n.Geometry)
	assert.Len(t, n.Animations, 1)
}

func TestCodecMeshMaterials(t *testing.T) {
	c := NewJSONCodec([]string{gradientMaterial})
	scn := baseScene()
	ground := scn.MeshByName("ground")

	snap, err := c.SerializeNode(ground)
	require.NoError(t, err)
	require.Len(t, snap.Records("materials"), 1)
	assert.Equal(t, "groundMat-id", snap.Records("materials")[0].String("id"))
	assert.NotContains(t, snap, "multiMaterials")

	box, err := c.SerializeNode(scn.MeshByName("box"))
	require.NoError(t, err)
	assert.NotContains(t, box, "materials")

	grad := NewCustomMaterial("grad", gradientMaterial)
	multi := NewMaterial("multi", MaterialMulti)
	multi.SubMaterials = []*Material{ground.Material, nil, grad}
	ground.Material = multi
	snap, err = c.SerializeNode(ground)
	require.NoError(t, err)
	snap = jsonRoundTrip(t, snap)
	require.Len(t, snap.Records("materials"), 2)
	require.Len(t, snap.Records("multiMaterials"), 1)
	assert.Equal(t, multi.ID, snap.Records("meshes")[0].String("materialId"))

	target := NewScene("target")
	for _, mr := range snap.Records("materials") {
		m, err := c.ParseMaterial(mr, target)
		require.NoError(t, err)
		target.Materials = append(target.Materials, m)
	}
	m, err := c.ParseMaterial(snap.Records("multiMaterials")[0], target)
	require.NoError(t, err)
	target.Materials = append(target.Materials, m)
	require.Len(t, m.SubMaterials, 2)
	assert.Same(t, target.MaterialByID("groundMat-id"), m.SubMaterials[0])
	assert.Same(t, target.MaterialByID(grad.ID), m.SubMaterials[1])

	n, err := c.ParseMesh(snap.Records("meshes")[0], target)
	require.NoError(t, err)
	assert.Same(t, m, n.Material)
}

func TestCodecLightCamera(t *testing.T) {
	c := NewJSONCodec(nil)
	sun := NewLight("sun", LIGHT_TYPE_SPOT)
	sun.Light.Angle = 0.5
	sun.Light.Intensity = 3
	sun.Position = vec3.T{4, 5, 6}

	rec, err := c.SerializeNode(sun)
	require.NoError(t, err)
	got, err := c.ParseLight(jsonRoundTrip(t, rec), nil)
	require.NoError(t, err)
	assert.Equal(t, sun.ID, got.ID)
	assert.Equal(t, NodeLight, got.Kind)
	assert.Equal(t, *sun.Light, *got.Light)
	assert.Equal(t, sun.Position, got.Position)

	cam := NewCamera("cam")
	cam.Camera.Fov = 1.2
	cam.Camera.Target = vec3.T{0, 0, 1}
	rec, err = c.SerializeNode(cam)
	require.NoError(t, err)
	gotCam, err := c.ParseCamera(jsonRoundTrip(t, rec), nil)
	require.NoError(t, err)
	assert.Equal(t, *cam.Camera, *gotCam.Camera)
	assert.Equal(t, "cam", gotCam.Name)
}

func TestCodecMaterial(t *testing.T) {
	c := NewJSONCodec([]string{gradientMaterial})

	tests := []struct {
		name  string
		class string
		kind  MaterialKind
		err   error
	}{
		{"standard", ClassStandardMaterial, MaterialStandard, nil},
		{"pbr", ClassPBRMaterial, MaterialPBR, nil},
		{"multi", ClassMultiMaterial, MaterialMulti, nil},
		{"custom", gradientMaterial, MaterialCustom, nil},
		{"unknown", "LavaMaterial", 0, ErrUnknownKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := c.ParseMaterial(Record{"id": "m1", "name": "m", "customType": tt.class, "alpha": 0.5}, nil)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, m.Kind)
			assert.Equal(t, tt.class, m.ClassName())
			assert.Equal(t, "m1", m.ID)
			assert.Equal(t, float32(0.5), m.Alpha)
		})
	}

	m := NewCustomMaterial("grad", gradientMaterial)
	m.Properties = map[string]any{"offset": 0.25}
	m.SetTexture("diffuseTexture", retainedTexture(t, "d.png"))
	m.SetTexture("reflectionTexture", &Texture{Name: "mirror", Kind: TextureRenderTarget, Level: 1})
	rec, err := c.SerializeMaterial(m)
	require.NoError(t, err)
	InlineTextureFields(m, rec)

	rt := &RenderTarget{Name: "mirror", Texture: &Texture{Name: "mirror", Kind: TextureRenderTarget}}
	scn := NewScene("s")
	scn.CustomRenderTargets = append(scn.CustomRenderTargets, rt)

	got, err := c.ParseMaterial(jsonRoundTrip(t, rec), scn)
	require.NoError(t, err)
	assert.Equal(t, m.Textures["diffuseTexture"].Buffer, got.Textures["diffuseTexture"].Buffer)
	assert.Same(t, rt.Texture, got.Textures["reflectionTexture"], "render target textures resolve to the live target")
	assert.Equal(t, 0.25, got.Properties["offset"])
}

func TestCodecShadowGenerator(t *testing.T) {
	c := NewJSONCodec(nil)
	scn := baseScene()
	sun := scn.LightByName("sun")
	ghost := NewMesh("ghost")
	sg := &ShadowGenerator{Light: sun, MapSize: 1024, Bias: 0.01, RenderList: []*Node{scn.MeshByName("box"), ghost}}

	rec, err := c.SerializeShadowGenerator(sg)
	require.NoError(t, err)
	assert.Equal(t, []string{"box-id", ghost.ID}, rec.Strings("renderList"))

	got, dropped, err := c.ParseShadowGenerator(jsonRoundTrip(t, rec), scn)
	require.NoError(t, err)
	assert.Same(t, sun, got.Light)
	assert.Equal(t, 1024, got.MapSize)
	assert.Equal(t, []*Node{scn.MeshByName("box")}, got.RenderList)
	assert.Equal(t, []string{ghost.ID}, dropped)
}

func TestCodecSoundAndParticles(t *testing.T) {
	c := NewJSONCodec(nil)
	scn := baseScene()
	box := scn.MeshByName("box")

	snd := &Sound{Name: "music", URL: "sounds/theme.ogg", Volume: 0.7, Loop: true, AttachedNode: box}
	rec, err := c.SerializeSound(snd)
	require.NoError(t, err)
	got, err := c.ParseSound(jsonRoundTrip(t, rec), scn)
	require.NoError(t, err)
	assert.Equal(t, "theme.ogg", got.Name)
	assert.Equal(t, float32(0.7), got.Volume)
	assert.True(t, got.Loop)
	assert.Same(t, box, got.AttachedNode)

	ps := &ParticleSystem{ID: "ps", Name: "smoke", Emitter: box, Capacity: 500, Gravity: vec3.T{0, -9.8, 0}, Texture: NewTexture("smoke.png")}
	rec, err = c.SerializeParticleSystem(ps)
	require.NoError(t, err)
	assert.Equal(t, "box-id", rec.String("emitterId"))
	assert.Equal(t, "smoke.png", rec.String(FieldTextureName))
	gotPS, err := c.ParseParticleSystem(jsonRoundTrip(t, rec), scn)
	require.NoError(t, err)
	assert.Same(t, box, gotPS.Emitter)
	assert.Equal(t, 500, gotPS.Capacity)
	assert.Equal(t, ps.Gravity, gotPS.Gravity)
	assert.Equal(t, "smoke.png", gotPS.Texture.Name)
}

func TestCodecPostProcess(t *testing.T) {
	c := NewJSONCodec(nil)
	pp := &PostProcess{
		Name:      PipelineHDR,
		ClassName: "HDRRenderingPipeline",
		Params:    Record{"exposure": 1.5},
		Textures:  map[string]*Texture{"lensTexture": NewTexture("lens.png")},
	}
	rec, err := c.SerializePostProcess(pp)
	require.NoError(t, err)
	assert.Equal(t, "HDRRenderingPipeline", rec.String("className"))
	assert.Equal(t, 1.5, rec["exposure"])
	lens, ok := rec.Record("lensTexture")
	require.True(t, ok)
	assert.Equal(t, "lens.png", lens.String("name"))
	assert.NotContains(t, pp.Params, "className", "params are not modified")
}
