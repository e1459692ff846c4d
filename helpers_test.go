package editproj

import (
	"image"
	"image/color"
	"io"
	"log/slog"
	"testing"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/stretchr/testify/require"
)

const gradientMaterial = "GradientMaterial"

func newTestSession() *Session {
	cfg := DefaultConfig()
	cfg.MaterialKinds = []string{gradientMaterial, "SkyMaterial"}
	sess := NewSession(cfg)
	sess.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return sess
}

func quadGeometry(id string) *Geometry {
	return &Geometry{
		ID:        id,
		Positions: []vec3.T{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		UVs:       []vec2.T{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
}

// baseScene 构建基础场景, 每次调用得到相同 id 的新对象
func baseScene() *Scene {
	scn := NewScene("base")

	geo := quadGeometry("quad")
	scn.Geometries = append(scn.Geometries, geo)

	ground := NewMesh("ground")
	ground.ID = "ground-id"
	ground.Geometry = geo
	ground.Material = NewMaterial("groundMat", MaterialStandard)
	ground.Material.ID = "groundMat-id"

	box := NewMesh("box")
	box.ID = "box-id"
	box.Position = vec3.T{0, 1, 0}
	box.Geometry = geo
	ground.AddChild(box)

	sun := NewLight("sun", LIGHT_TYPE_DIRECTIONAL)
	sun.ID = "sun-id"

	cam := NewCamera("camera")
	cam.ID = "camera-id"

	editorCam := NewCamera("EditorCamera")
	editorCam.ID = "editor-camera-id"

	scn.AddTree(ground)
	scn.AddNode(sun)
	scn.AddNode(cam)
	scn.AddNode(editorCam)
	scn.Materials = append(scn.Materials, ground.Material)
	return scn
}

func testImage(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{uint8(x * 40), uint8(y * 40), 200, 255})
		}
	}
	return img
}

func retainedTexture(t *testing.T, name string) *Texture {
	t.Helper()
	tex, err := TextureFromImage(testImage(4, 3), name)
	require.NoError(t, err)
	return tex
}

func exportImport(t *testing.T, sess *Session, scn *Scene) (*Session, *Scene, *Document) {
	t.Helper()
	data, err := ExportProject(sess, scn, false)
	require.NoError(t, err)
	doc, err := ParseDocument(data)
	require.NoError(t, err)

	sess2 := newTestSession()
	target := baseScene()
	require.NoError(t, ImportProject(sess2, target, data))
	return sess2, target, doc
}

func modifiedAnimation(sess *Session, name string) *Animation {
	a := &Animation{
		Name:            name,
		TargetProperty:  "position.y",
		FramesPerSecond: 60,
		LoopMode:        ANIMATION_LOOP_CYCLE,
		Keys: []AnimationKey{
			{Frame: 0, Values: []float32{0}},
			{Frame: 30, Values: []float32{2}},
			{Frame: 60, Values: []float32{0}},
		},
	}
	sess.Tags.AddTag(a, TagModified)
	return a
}
