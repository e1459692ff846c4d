package editproj

import (
	"log/slog"
)

// ImportProject parses data and applies it onto scn. Only a malformed
// document is an error; unresolved references are logged and skipped.
func ImportProject(sess *Session, scn *Scene, data []byte) error {
	doc, err := ParseDocument(data)
	if err != nil {
		return err
	}
	ApplyProject(sess, scn, doc)
	return nil
}

// ApplyProject reconstructs the entities of doc onto scn. Order matters:
// render targets come before the materials that sample them, materials
// before the meshes using them, nodes before particle systems.
func ApplyProject(sess *Session, scn *Scene, doc *Document) {
	doc.compact()
	im := &importer{
		sess:     sess,
		scn:      scn,
		doc:      doc,
		ix:       newSceneIndex(scn),
		log:      sess.Logger,
		emitters: make(map[string]bool),
	}
	for _, pr := range doc.ParticleSystems {
		if !pr.HasEmitter {
			if id := pr.SerializationObject.String("emitterId"); id != "" {
				im.emitters[id] = true
			}
		}
	}

	im.renderTargets()
	im.materials()
	im.sounds()
	im.nodes()
	im.particleSystems()
	im.lensFlares()
	im.shadowGenerators()
	im.sceneActions()
	im.playback()
	im.postProcesses()
	im.waitingLists()
	im.attachMaterials()
	sess.Metadata.CopyFrom(doc.CustomMetadatas)
}

type pendingTarget struct {
	target       *RenderTarget
	probe        *ReflectionProbe
	members      []string
	attachedMesh string
}

type importer struct {
	sess *Session
	scn  *Scene
	doc  *Document
	ix   *sceneIndex
	log  *slog.Logger

	pending  []*pendingTarget
	emitters map[string]bool
}

func (im *importer) tag(obj any, tag string) {
	im.sess.Tags.EnableTagging(obj)
	im.sess.Tags.AddTag(obj, tag)
}

func (im *importer) renderTargets() {
	im.log.Debug("import render targets", "count", len(im.doc.RenderTargets))
	for _, rec := range im.doc.RenderTargets {
		so := rec.SerializationObject
		pt := &pendingTarget{members: so.Strings("renderList")}
		if rec.IsProbe {
			p, err := im.sess.Codec.ParseReflectionProbe(so)
			if err != nil {
				im.log.Warn("skip reflection probe", "error", err)
				continue
			}
			im.scn.ReflectionProbes = append(im.scn.ReflectionProbes, p)
			im.ix.addProbe(p)
			im.tag(p, TagAdded)
			pt.probe = p
			pt.attachedMesh = so.String("attachedMeshId")
		} else {
			rt, err := im.sess.Codec.ParseRenderTarget(so)
			if err != nil {
				im.log.Warn("skip render target", "error", err)
				continue
			}
			im.scn.CustomRenderTargets = append(im.scn.CustomRenderTargets, rt)
			im.ix.addRenderTarget(rt)
			im.tag(rt, TagAdded)
			pt.target = rt
		}
		im.pending = append(im.pending, pt)
	}
}

func (im *importer) materials() {
	im.log.Debug("import materials", "count", len(im.doc.Materials))
	for _, mr := range im.doc.Materials {
		if !mr.NewInstance {
			continue
		}
		m, err := im.sess.Codec.ParseMaterial(mr.SerializedValues, im.ix)
		if err != nil {
			im.log.Warn("skip material", "meshes", mr.MeshesNames, "error", err)
			continue
		}
		mr.material = m
		im.scn.Materials = append(im.scn.Materials, m)
		im.ix.addMaterial(m)
		im.sess.Tags.EnableTagging(m)
	}
}

func (im *importer) sounds() {
	for _, sr := range im.doc.Sounds {
		s, err := im.sess.Codec.ParseSound(sr.SerializationObject, im.ix)
		if err != nil {
			im.log.Warn("skip sound", "name", sr.Name, "error", err)
			continue
		}
		s.Name = sr.Name
		im.scn.Sounds = append(im.scn.Sounds, s)
		im.ix.addSound(s)
		im.tag(s, TagAdded)
	}
}

func (im *importer) nodes() {
	im.log.Debug("import nodes", "count", len(im.doc.Nodes))
	for _, nr := range im.doc.Nodes {
		var target animatable
		switch nr.Type {
		case TypeScene:
			target = im.scn
		case TypeSound:
			if s := im.ix.soundByName(nr.Name); s != nil {
				target = s
			}
		default:
			kind, ok := nodeKindOf(nr.Type)
			if !ok {
				im.log.Warn("skip node of unknown type", "name", nr.Name, "type", nr.Type)
				continue
			}
			n := im.resolveNode(nr, kind)
			if n == nil {
				break
			}
			target = n
			if kind == NodeMesh && nr.Actions != nil {
				im.meshActions(n, nr.Actions)
			}
		}
		if target == nil {
			im.log.Warn("skip unresolved node", "name", nr.Name, "id", nr.ID, "type", nr.Type)
			continue
		}

		list := target.animationList()
		for _, ar := range nr.Animations {
			a, err := im.sess.Codec.ParseAnimation(ar.SerializationObject)
			if err != nil {
				im.log.Warn("skip animation", "target", nr.Name, "error", err)
				continue
			}
			*list = append(*list, a)
			im.tag(a, TagModified)
		}
	}
}

func (im *importer) resolveNode(nr *NodeRecord, kind NodeKind) *Node {
	if nr.SerializationObject != nil {
		n, err := im.reconstruct(nr.SerializationObject, kind)
		if err != nil {
			im.log.Warn("skip node snapshot", "name", nr.Name, "error", err)
			return nil
		}
		return n
	}
	if n := im.ix.nodeByName(kind, nr.Name); n != nil {
		return n
	}
	if !im.emitters[nr.ID] {
		return nil
	}
	n := NewMesh(nr.Name)
	n.ID = nr.ID
	n.Visible = false
	im.addNode(n)
	im.tag(n, TagAddedParticleSystem)
	return n
}

func (im *importer) addNode(n *Node) {
	im.scn.AddNode(n)
	im.ix.addNode(n)
}

// reconstruct builds a node from its snapshot. For meshes geometries and
// materials are registered before the mesh entries.
func (im *importer) reconstruct(snap Record, kind NodeKind) (*Node, error) {
	codec := im.sess.Codec
	var n *Node
	var err error
	switch kind {
	case NodeMesh:
		for _, gr := range snap.Records("geometries") {
			g, err := codec.ParseGeometry(gr)
			if err != nil {
				return nil, err
			}
			if im.ix.GeometryByID(g.ID) == nil {
				im.scn.Geometries = append(im.scn.Geometries, g)
				im.ix.addGeometry(g)
			}
		}
		im.snapshotMaterials(snap)
		for _, mr := range snap.Records("meshes") {
			m, err := codec.ParseMesh(mr, im.ix)
			if err != nil {
				return nil, err
			}
			im.addNode(m)
			im.tag(m, TagAdded)
			if n == nil {
				n = m
			}
		}
		if n == nil {
			return nil, ErrInvalidDocument
		}
		return n, nil
	case NodeLight:
		n, err = codec.ParseLight(snap, im.ix)
	case NodeCamera:
		n, err = codec.ParseCamera(snap, im.ix)
	}
	if err != nil {
		return nil, err
	}
	im.addNode(n)
	im.tag(n, TagAdded)
	return n, nil
}

// snapshotMaterials registers the materials carried by a mesh snapshot,
// plain ones before the multi materials listing them. A material whose id
// is already known keeps the existing instance.
func (im *importer) snapshotMaterials(snap Record) {
	for _, key := range []string{"materials", "multiMaterials"} {
		for _, mr := range snap.Records(key) {
			if im.ix.MaterialByID(mr.String("id")) != nil {
				continue
			}
			m, err := im.sess.Codec.ParseMaterial(mr, im.ix)
			if err != nil {
				im.log.Warn("skip snapshot material", "name", mr.String("name"), "error", err)
				continue
			}
			im.scn.Materials = append(im.scn.Materials, m)
			im.ix.addMaterial(m)
			im.sess.Tags.EnableTagging(m)
		}
	}
}

func (im *importer) meshActions(n *Node, rec Record) {
	am, err := im.sess.Codec.ParseActionManager(rec)
	if err != nil {
		im.log.Warn("skip mesh actions", "name", n.Name, "error", err)
		return
	}
	im.tag(am, TagAdded)
	if im.sess.Actions.AuthoredMode {
		n.ActionManager = am
		return
	}
	im.sess.Actions.Configure(n, am)
}

func (im *importer) particleSystems() {
	for _, pr := range im.doc.ParticleSystems {
		so := pr.SerializationObject
		ps, err := im.sess.Codec.ParseParticleSystem(so, im.ix)
		if err != nil {
			im.log.Warn("skip particle system", "error", err)
			continue
		}
		if ps.Emitter == nil {
			im.log.Warn("skip particle system without emitter", "name", ps.Name, "emitter", so.String("emitterId"))
			continue
		}
		tex, err := inlinedTexture(so, FieldBase64TextureName, FieldBase64Texture)
		if err != nil {
			im.log.Warn("drop particle texture", "name", ps.Name, "error", err)
		} else if tex != nil {
			ps.Texture = tex
		}
		if !pr.HasEmitter && pr.EmitterPosition != nil {
			ps.Emitter.Position = *pr.EmitterPosition
		}
		im.scn.ParticleSystems = append(im.scn.ParticleSystems, ps)
		im.ix.addParticleSystem(ps)
		im.tag(ps, TagAdded)
	}
}

func (im *importer) lensFlares() {
	for _, lr := range im.doc.LensFlares {
		so := lr.SerializationObject
		lf, err := im.sess.Codec.ParseLensFlareSystem(so, im.ix)
		if err != nil {
			im.log.Warn("skip lens flare system", "error", err)
			continue
		}
		for i, fr := range so.Records("flares") {
			if i >= len(lf.Flares) {
				break
			}
			tex, err := inlinedTexture(fr, FieldBase64Name, FieldBase64Buffer)
			if err != nil {
				im.log.Warn("drop lens flare texture", "system", lf.Name, "error", err)
				continue
			}
			if tex != nil {
				lf.Flares[i].Texture = tex
			}
		}
		im.scn.LensFlareSystems = append(im.scn.LensFlareSystems, lf)
	}
}

func (im *importer) shadowGenerators() {
	for _, rec := range im.doc.ShadowGenerators {
		sg, dropped, err := im.sess.Codec.ParseShadowGenerator(rec, im.ix)
		if err != nil {
			im.log.Warn("skip shadow generator", "error", err)
			continue
		}
		for _, id := range dropped {
			im.log.Warn("drop shadow caster", "id", id)
		}
		if sg.Light == nil {
			im.log.Warn("skip shadow generator without light", "light", rec.String("lightId"))
			continue
		}
		sg.Light.ShadowGenerator = sg
		im.tag(sg, TagAdded)
	}
}

func (im *importer) sceneActions() {
	if im.doc.Actions == nil {
		return
	}
	am, err := im.sess.Codec.ParseActionManager(im.doc.Actions)
	if err != nil {
		im.log.Warn("skip scene actions", "error", err)
		return
	}
	im.sess.Actions.Scene = am
	im.tag(am, TagAdded)
}

func (im *importer) playback() {
	gc := im.doc.GlobalConfiguration
	if gc == nil {
		return
	}
	pb := im.sess.Playback
	pb.Speed = gc.GlobalAnimationSpeed
	pb.FramesPerSecond = gc.FramesPerSecond
	for _, ent := range gc.AnimatedAtLaunch {
		var obj any
		switch ent.Type {
		case TypeScene:
			obj = im.scn
		case TypeNode:
			if n := im.ix.anyNodeByName(ent.Name); n != nil {
				obj = n
			}
		case TypeSound:
			if s := im.ix.soundByName(ent.Name); s != nil {
				obj = s
			}
		case TypeParticleSystem:
			if ps := im.ix.particleSystemByName(ent.Name); ps != nil {
				obj = ps
			}
		}
		if obj == nil {
			im.log.Debug("auto play target not found", "name", ent.Name, "type", ent.Type)
			continue
		}
		pb.Add(obj)
	}
}

func (im *importer) postProcesses() {
	for _, pr := range im.doc.PostProcesses {
		params, err := pr.SerializationObject.Clone()
		if err != nil {
			im.log.Warn("skip post process", "name", pr.Name, "error", err)
			continue
		}
		if params == nil {
			params = Record{}
		}
		textures := make(map[string]*Texture)
		for field, v := range params {
			tr, ok := isTextureRecord(v)
			if !ok {
				continue
			}
			tex, err := im.sess.Codec.ParseTexture(tr, im.ix)
			if err != nil {
				im.log.Warn("drop post process texture", "name", pr.Name, "field", field, "error", err)
			} else {
				textures[field] = tex
			}
			delete(params, field)
		}
		pp, err := im.sess.PostProcesses.Build(pr.Name, im.scn, params, textures)
		if err != nil {
			im.log.Warn("skip post process", "name", pr.Name, "error", err)
			continue
		}
		if !pr.Attach {
			pp.Detach()
		}
	}
}

func (im *importer) resolveMembers(ids []string, owner string) []*Node {
	var nodes []*Node
	for _, id := range ids {
		n := im.ix.NodeByID(id)
		if n == nil {
			im.log.Warn("drop render list entry", "owner", owner, "id", id)
			continue
		}
		nodes = append(nodes, n)
	}
	return nodes
}

func (im *importer) waitingLists() {
	for _, pt := range im.pending {
		if pt.probe != nil {
			pt.probe.RenderList = im.resolveMembers(pt.members, pt.probe.Name)
			if pt.attachedMesh == "" {
				continue
			}
			if m := im.ix.NodeByID(pt.attachedMesh); m != nil {
				pt.probe.AttachedMesh = m
			} else {
				im.log.Warn("probe mesh not found", "probe", pt.probe.Name, "id", pt.attachedMesh)
			}
			continue
		}
		pt.target.RenderList = im.resolveMembers(pt.members, pt.target.Name)
	}
}

func (im *importer) attachMaterials() {
	for _, mr := range im.doc.Materials {
		m := mr.material
		if m == nil {
			continue
		}
		for _, name := range mr.MeshesNames {
			mesh := im.ix.nodeByName(NodeMesh, name)
			if mesh == nil {
				im.log.Warn("material mesh not found", "material", m.Name, "mesh", name)
				continue
			}
			if mesh.Material != nil && mesh.Material.Kind == MaterialMulti && mesh.Material != m {
				if !mesh.Material.replaceSubMaterial(m) {
					im.log.Warn("sub material not found", "material", m.Name, "mesh", name)
				}
				continue
			}
			mesh.Material = m
		}
	}
}
