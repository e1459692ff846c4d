package editproj

// sceneIndex is built once per import. On name or id collisions the first
// object registered wins, base scene objects before imported ones.
type sceneIndex struct {
	ids        map[string]*Node
	names      map[string]*Node
	byKind     [3]map[string]*Node
	geometries map[string]*Geometry
	materials  map[string]*Material
	sounds     map[string]*Sound
	particles  map[string]*ParticleSystem
	targets    map[string]*RenderTarget
	probes     map[string]*ReflectionProbe
}

func newSceneIndex(scn *Scene) *sceneIndex {
	ix := &sceneIndex{
		ids:        make(map[string]*Node),
		names:      make(map[string]*Node),
		geometries: make(map[string]*Geometry),
		materials:  make(map[string]*Material),
		sounds:     make(map[string]*Sound),
		particles:  make(map[string]*ParticleSystem),
		targets:    make(map[string]*RenderTarget),
		probes:     make(map[string]*ReflectionProbe),
	}
	for i := range ix.byKind {
		ix.byKind[i] = make(map[string]*Node)
	}
	for _, n := range scn.Nodes() {
		ix.addNode(n)
	}
	for _, g := range scn.Geometries {
		ix.addGeometry(g)
	}
	for _, m := range scn.Materials {
		ix.addMaterial(m)
	}
	for _, s := range scn.Sounds {
		ix.addSound(s)
	}
	for _, ps := range scn.ParticleSystems {
		ix.addParticleSystem(ps)
	}
	for _, rt := range scn.CustomRenderTargets {
		ix.addRenderTarget(rt)
	}
	for _, p := range scn.ReflectionProbes {
		ix.addProbe(p)
	}
	return ix
}

func putFirst[T any](m map[string]T, key string, v T) {
	if key == "" {
		return
	}
	if _, ok := m[key]; !ok {
		m[key] = v
	}
}

func (ix *sceneIndex) addNode(n *Node) {
	putFirst(ix.ids, n.ID, n)
	putFirst(ix.names, n.Name, n)
	if int(n.Kind) < len(ix.byKind) {
		putFirst(ix.byKind[n.Kind], n.Name, n)
	}
}

func (ix *sceneIndex) addGeometry(g *Geometry) {
	putFirst(ix.geometries, g.ID, g)
}

func (ix *sceneIndex) addMaterial(m *Material) {
	putFirst(ix.materials, m.ID, m)
}

func (ix *sceneIndex) addSound(s *Sound) {
	putFirst(ix.sounds, s.Name, s)
}

func (ix *sceneIndex) addParticleSystem(ps *ParticleSystem) {
	putFirst(ix.particles, ps.Name, ps)
}

func (ix *sceneIndex) addRenderTarget(rt *RenderTarget) {
	putFirst(ix.targets, rt.Name, rt)
}

func (ix *sceneIndex) addProbe(p *ReflectionProbe) {
	putFirst(ix.probes, p.Name, p)
}

func (ix *sceneIndex) NodeByID(id string) *Node {
	return ix.ids[id]
}

func (ix *sceneIndex) GeometryByID(id string) *Geometry {
	return ix.geometries[id]
}

func (ix *sceneIndex) MaterialByID(id string) *Material {
	return ix.materials[id]
}

func (ix *sceneIndex) RenderTargetByName(name string) *RenderTarget {
	return ix.targets[name]
}

func (ix *sceneIndex) ProbeByName(name string) *ReflectionProbe {
	return ix.probes[name]
}

func (ix *sceneIndex) nodeByName(kind NodeKind, name string) *Node {
	if int(kind) >= len(ix.byKind) {
		return nil
	}
	return ix.byKind[kind][name]
}

// anyNodeByName looks lights, cameras and meshes up in that order.
func (ix *sceneIndex) anyNodeByName(name string) *Node {
	return ix.names[name]
}

func (ix *sceneIndex) soundByName(name string) *Sound {
	return ix.sounds[name]
}

func (ix *sceneIndex) particleSystemByName(name string) *ParticleSystem {
	return ix.particles[name]
}
