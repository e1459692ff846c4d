package editproj

import "fmt"

// ExportProject writes every editor-authored delta of scn as an indented
// project document.
func ExportProject(sess *Session, scn *Scene, includeRequestedMaterials bool) ([]byte, error) {
	doc, err := BuildProject(sess, scn, includeRequestedMaterials)
	if err != nil {
		return nil, err
	}
	return doc.Marshal(sess.Config.Indent)
}

// Export is ExportProject with the requested-materials flag taken from the
// session configuration.
func (s *Session) Export(scn *Scene) ([]byte, error) {
	return ExportProject(s, scn, s.Config.IncludeRequestedMaterials)
}

// BuildProject builds the project document of scn. The authored action
// managers are installed for the duration of the call and the live ones are
// restored before it returns, on every path.
func BuildProject(sess *Session, scn *Scene, includeRequestedMaterials bool) (*Document, error) {
	sess.Codec.ClearCache()

	sess.Actions.Swap(scn)
	defer sess.Actions.Swap(scn)

	e := &exporter{
		sess:       sess,
		scn:        scn,
		doc:        newDocument(),
		materials:  make(map[*Material]*MaterialRecord),
		requested:  make(map[string]bool),
		includeReq: includeRequestedMaterials,
		editorCam:  sess.editorCamera(scn),
	}
	e.doc.CustomMetadatas.CopyFrom(sess.Metadata)
	if err := e.export(); err != nil {
		return nil, err
	}
	return e.doc, nil
}

type exporter struct {
	sess *Session
	scn  *Scene
	doc  *Document

	materials  map[*Material]*MaterialRecord
	requested  map[string]bool
	includeReq bool
	editorCam  *Node
}

func (e *exporter) added(obj any) bool {
	return e.sess.Tags.MatchesTag(obj, TagAdded)
}

func (e *exporter) export() error {
	codec := e.sess.Codec

	e.doc.GlobalConfiguration = e.sess.Playback.configuration()

	for _, snd := range e.scn.Sounds {
		if !e.added(snd) {
			continue
		}
		rec, err := codec.SerializeSound(snd)
		if err != nil {
			return fmt.Errorf("sound %q: %w", snd.Name, err)
		}
		e.doc.Sounds = append(e.doc.Sounds, &SoundRecord{Name: snd.Name, SerializationObject: rec})
	}

	for _, p := range e.scn.ReflectionProbes {
		rec, err := codec.SerializeReflectionProbe(p)
		if err != nil {
			return fmt.Errorf("reflection probe %q: %w", p.Name, err)
		}
		e.doc.RenderTargets = append(e.doc.RenderTargets, &RenderTargetRecord{IsProbe: true, SerializationObject: rec})
	}
	for _, rt := range e.scn.CustomRenderTargets {
		if !e.added(rt) {
			continue
		}
		rec, err := codec.SerializeRenderTarget(rt)
		if err != nil {
			return fmt.Errorf("render target %q: %w", rt.Name, err)
		}
		e.doc.RenderTargets = append(e.doc.RenderTargets, &RenderTargetRecord{SerializationObject: rec})
	}

	for _, lf := range e.scn.LensFlareSystems {
		rec, err := codec.SerializeLensFlareSystem(lf)
		if err != nil {
			return fmt.Errorf("lens flare system %q: %w", lf.Name, err)
		}
		inlineFlareTextures(lf, rec)
		e.doc.LensFlares = append(e.doc.LensFlares, &LensFlareRecord{SerializationObject: rec})
	}

	for _, pp := range e.sess.PostProcesses.Active() {
		rec, err := codec.SerializePostProcess(pp)
		if err != nil {
			return fmt.Errorf("post process %q: %w", pp.Name, err)
		}
		InlineTextureFields(pp, rec)
		e.doc.PostProcesses = append(e.doc.PostProcesses, &PostProcessRecord{
			Attach:              pp.Attached(),
			Name:                pp.Name,
			SerializationObject: rec,
		})
	}

	if am := e.scn.ActionManager; am != nil && e.added(am) {
		rec, err := codec.SerializeActionManager(am)
		if err != nil {
			return fmt.Errorf("scene actions: %w", err)
		}
		e.doc.Actions = rec
	}

	for _, n := range e.scn.RootNodes() {
		if err := e.visit(n); err != nil {
			return err
		}
	}
	if err := e.visitAnimated(e.scn, e.scn.Name, e.scn.Name, TypeScene); err != nil {
		return err
	}
	for _, snd := range e.scn.Sounds {
		if err := e.visitAnimated(snd, snd.Name, snd.Name, TypeSound); err != nil {
			return err
		}
	}

	if e.includeReq {
		e.doc.RequestedMaterials = []string{}
		for _, mr := range e.doc.Materials {
			class := mr.material.ClassName()
			if e.requested[class] {
				e.doc.RequestedMaterials = append(e.doc.RequestedMaterials, class)
				delete(e.requested, class)
			}
		}
	}
	return nil
}

func (e *exporter) visit(n *Node) error {
	if n == e.editorCam || e.sess.Tags.MatchesTag(n, TagFurAdded) {
		return nil
	}

	placeholder := e.sess.Tags.MatchesTag(n, TagAddedParticleSystem)
	for _, ps := range e.scn.ParticleSystemsOf(n) {
		if err := e.exportParticleSystem(ps, placeholder); err != nil {
			return err
		}
	}

	if n.Kind == NodeMesh {
		if err := e.exportMaterials(n); err != nil {
			return err
		}
	}

	if n.Kind == NodeLight && n.ShadowGenerator != nil && e.added(n.ShadowGenerator) {
		rec, err := e.sess.Codec.SerializeShadowGenerator(n.ShadowGenerator)
		if err != nil {
			return fmt.Errorf("shadow generator of %q: %w", n.Name, err)
		}
		e.doc.ShadowGenerators = append(e.doc.ShadowGenerators, rec)
	}

	if err := e.exportNode(n, placeholder); err != nil {
		return err
	}

	for _, c := range n.Children {
		if err := e.visit(c); err != nil {
			return err
		}
	}
	return nil
}

func (e *exporter) exportParticleSystem(ps *ParticleSystem, placeholder bool) error {
	rec, err := e.sess.Codec.SerializeParticleSystem(ps)
	if err != nil {
		return fmt.Errorf("particle system %q: %w", ps.Name, err)
	}
	inlineParticleTexture(ps, rec)
	psr := &ParticleSystemRecord{HasEmitter: !placeholder, SerializationObject: rec}
	if placeholder {
		pos := ps.Emitter.Position
		psr.EmitterPosition = &pos
	}
	e.doc.ParticleSystems = append(e.doc.ParticleSystems, psr)
	return nil
}

func (e *exporter) exportMaterials(n *Node) error {
	m := n.Material
	if m == nil || e.sess.Tags.MatchesTag(m, TagFurShellMaterial) {
		return nil
	}
	switch m.Kind {
	case MaterialStandard:
		return nil
	case MaterialMulti:
		for _, sub := range m.SubMaterials {
			if sub == nil || sub.Kind == MaterialStandard || sub.Kind == MaterialMulti ||
				e.sess.Tags.MatchesTag(sub, TagFurShellMaterial) {
				continue
			}
			if err := e.addMaterial(sub, n.Name); err != nil {
				return err
			}
		}
		return nil
	}
	return e.addMaterial(m, n.Name)
}

// addMaterial keeps one record per material instance, accumulating the
// names of the meshes using it.
func (e *exporter) addMaterial(m *Material, meshName string) error {
	if mr, ok := e.materials[m]; ok {
		mr.MeshesNames = append(mr.MeshesNames, meshName)
		return nil
	}
	rec, err := e.sess.Codec.SerializeMaterial(m)
	if err != nil {
		return fmt.Errorf("material %q: %w", m.Name, err)
	}
	InlineTextureFields(m, rec)
	mr := &MaterialRecord{
		MeshesNames:      []string{meshName},
		NewInstance:      true,
		SerializedValues: rec,
		material:         m,
	}
	e.materials[m] = mr
	e.doc.Materials = append(e.doc.Materials, mr)

	if class := m.ClassName(); !e.sess.Config.alwaysAvailable(class) {
		e.requested[class] = true
	}
	return nil
}

func (e *exporter) animationRecords(list []*Animation, name string, typ ObjectType) ([]*AnimationRecord, error) {
	records := []*AnimationRecord{}
	for _, a := range list {
		if !e.sess.Tags.MatchesTag(a, TagModified) {
			continue
		}
		rec, err := e.sess.Codec.SerializeAnimation(a)
		if err != nil {
			return nil, fmt.Errorf("animation %q of %q: %w", a.Name, name, err)
		}
		records = append(records, &AnimationRecord{
			TargetName:          name,
			TargetType:          typ,
			SerializationObject: rec,
			Events:              []any{},
		})
	}
	return records, nil
}

func (e *exporter) exportNode(n *Node, placeholder bool) error {
	anims, err := e.animationRecords(n.Animations, n.Name, TypeNode)
	if err != nil {
		return err
	}
	var actions Record
	if n.Kind == NodeMesh && n.ActionManager != nil && e.added(n.ActionManager) {
		if actions, err = e.sess.Codec.SerializeActionManager(n.ActionManager); err != nil {
			return fmt.Errorf("actions of %q: %w", n.Name, err)
		}
	}
	added := e.added(n)
	if !added && !placeholder && len(anims) == 0 && actions == nil {
		return nil
	}

	nr := &NodeRecord{
		Name:       n.Name,
		ID:         n.ID,
		Type:       n.Kind.ObjectType(),
		Animations: anims,
		Actions:    actions,
	}
	if added {
		snap, err := e.sess.Codec.SerializeNode(n)
		if err != nil {
			return fmt.Errorf("node %q: %w", n.Name, err)
		}
		stripSnapshot(snap)
		inlineSnapshotMaterials(n.Material, snap)
		nr.SerializationObject = snap
	}
	e.doc.Nodes = append(e.doc.Nodes, nr)
	return nil
}

// visitAnimated records the authored animations of a scene or sound.
func (e *exporter) visitAnimated(obj animatable, name, id string, typ ObjectType) error {
	anims, err := e.animationRecords(*obj.animationList(), name, typ)
	if err != nil {
		return err
	}
	if len(anims) == 0 {
		return nil
	}
	e.doc.Nodes = append(e.doc.Nodes, &NodeRecord{Name: name, ID: id, Type: typ, Animations: anims})
	return nil
}

// stripSnapshot removes animation and action payloads, which travel in
// their own records.
func stripSnapshot(snap Record) {
	delete(snap, "animations")
	delete(snap, "actions")
	for _, m := range snap.Records("meshes") {
		delete(m, "animations")
		delete(m, "actions")
	}
}

// inlineSnapshotMaterials 内联快照材质中保留了数据的纹理
func inlineSnapshotMaterials(m *Material, snap Record) {
	if m == nil {
		return
	}
	byID := map[string]*Material{m.ID: m}
	for _, sub := range m.SubMaterials {
		if sub != nil {
			byID[sub.ID] = sub
		}
	}
	for _, key := range []string{"materials", "multiMaterials"} {
		for _, rec := range snap.Records(key) {
			if mat, ok := byID[rec.String("id")]; ok {
				InlineTextureFields(mat, rec)
			}
		}
	}
}
