package editproj

import "sync"

const (
	DefaultAnimationSpeed  = 1.0
	DefaultFramesPerSecond = 60.0
)

// PlaybackRegistry 全局播放设置与启动时自动播放的对象列表
type PlaybackRegistry struct {
	mu sync.Mutex

	Speed           float32
	FramesPerSecond float32

	targets []any
}

func NewPlaybackRegistry() *PlaybackRegistry {
	return &PlaybackRegistry{Speed: DefaultAnimationSpeed, FramesPerSecond: DefaultFramesPerSecond}
}

func playbackType(obj any) (ObjectType, string, bool) {
	switch o := obj.(type) {
	case *Scene:
		if o != nil {
			return TypeScene, o.Name, true
		}
	case *Node:
		if o != nil {
			return TypeNode, o.Name, true
		}
	case *Sound:
		if o != nil {
			return TypeSound, o.Name, true
		}
	case *ParticleSystem:
		if o != nil {
			return TypeParticleSystem, o.Name, true
		}
	}
	return "", "", false
}

// Add appends obj to the auto-play list. Only scenes, nodes, sounds and
// particle systems are accepted; duplicates are ignored.
func (r *PlaybackRegistry) Add(obj any) bool {
	if _, _, ok := playbackType(obj); !ok {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.targets {
		if t == obj {
			return false
		}
	}
	r.targets = append(r.targets, obj)
	return true
}

func (r *PlaybackRegistry) Remove(obj any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.targets {
		if t == obj {
			r.targets = append(r.targets[:i], r.targets[i+1:]...)
			return true
		}
	}
	return false
}

func (r *PlaybackRegistry) Contains(obj any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.targets {
		if t == obj {
			return true
		}
	}
	return false
}

// Targets returns a copy of the auto-play list in insertion order.
func (r *PlaybackRegistry) Targets() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]any(nil), r.targets...)
}

func (r *PlaybackRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Speed = DefaultAnimationSpeed
	r.FramesPerSecond = DefaultFramesPerSecond
	r.targets = nil
}

func (r *PlaybackRegistry) configuration() *GlobalConfiguration {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg := &GlobalConfiguration{
		GlobalAnimationSpeed: r.Speed,
		FramesPerSecond:      r.FramesPerSecond,
		AnimatedAtLaunch:     []*AutoPlayEntry{},
	}
	for _, t := range r.targets {
		typ, name, _ := playbackType(t)
		cfg.AnimatedAtLaunch = append(cfg.AnimatedAtLaunch, &AutoPlayEntry{Name: name, Type: typ})
	}
	return cfg
}
