package editproj

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPlaybackRegistry 测试自动播放列表
func TestPlaybackRegistry(t *testing.T) {
	scn := NewScene("level")
	box := NewMesh("box")
	snd := &Sound{Name: "music"}
	ps := &ParticleSystem{Name: "smoke"}

	tests := []struct {
		name string
		obj  any
		ok   bool
		typ  ObjectType
	}{
		{"scene", scn, true, TypeScene},
		{"node", box, true, TypeNode},
		{"sound", snd, true, TypeSound},
		{"particle system", ps, true, TypeParticleSystem},
		{"material", NewMaterial("m", MaterialPBR), false, ""},
		{"nil node", (*Node)(nil), false, ""},
	}

	r := NewPlaybackRegistry()
	var want []*AutoPlayEntry
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, r.Add(tt.obj))
			assert.Equal(t, tt.ok, r.Contains(tt.obj))
		})
		if tt.ok {
			_, name, _ := playbackType(tt.obj)
			want = append(want, &AutoPlayEntry{Name: name, Type: tt.typ})
		}
	}

	assert.False(t, r.Add(box), "duplicates are ignored")
	assert.Equal(t, want, r.configuration().AnimatedAtLaunch)

	assert.True(t, r.Remove(snd))
	assert.False(t, r.Remove(snd))
	assert.Equal(t, []any{scn, box, ps}, r.Targets())

	r.Speed = 2
	r.Reset()
	assert.Empty(t, r.Targets())
	assert.Equal(t, float32(DefaultAnimationSpeed), r.Speed)
	assert.Equal(t, float32(DefaultFramesPerSecond), r.FramesPerSecond)
}
