package editproj

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestTagRegistry 测试标签表
func TestTagRegistry(t *testing.T) {
	a := NewMesh("a")
	b := NewMesh("a")

	tests := []struct {
		name   string
		setup  func(r *TagRegistry)
		obj    any
		has    bool
		tag    string
		wanted bool
	}{
		{"untagged", func(r *TagRegistry) {}, a, false, TagAdded, false},
		{"enabled only", func(r *TagRegistry) { r.EnableTagging(a) }, a, true, TagAdded, false},
		{"added", func(r *TagRegistry) { r.AddTag(a, TagAdded) }, a, true, TagAdded, true},
		{"idempotent", func(r *TagRegistry) {
			r.AddTag(a, TagAdded)
			r.AddTag(a, TagAdded)
			r.EnableTagging(a)
		}, a, true, TagAdded, true},
		{"identity not name", func(r *TagRegistry) { r.AddTag(a, TagAdded) }, b, false, TagAdded, false},
		{"other tag", func(r *TagRegistry) { r.AddTag(a, TagModified) }, a, true, TagAdded, false},
		{"removed", func(r *TagRegistry) {
			r.AddTag(a, TagAdded)
			r.RemoveTag(a, TagAdded)
		}, a, true, TagAdded, false},
		{"nil", func(r *TagRegistry) {}, nil, false, TagAdded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewTagRegistry()
			tt.setup(r)
			assert.Equal(t, tt.has, r.HasTags(tt.obj))
			assert.Equal(t, tt.wanted, r.MatchesTag(tt.obj, tt.tag))
		})
	}
}

func TestTagRegistryTagsAndReset(t *testing.T) {
	r := NewTagRegistry()
	snd := &Sound{Name: "music"}
	r.AddTag(snd, TagAdded)
	r.AddTag(snd, TagModified)
	assert.ElementsMatch(t, []string{TagAdded, TagModified}, r.Tags(snd))

	r.Reset()
	assert.False(t, r.HasTags(snd))
	assert.Empty(t, r.Tags(snd))
}
