package editproj

import "errors"

var (
	ErrInvalidDocument    = errors.New("invalid project document")
	ErrUnsupportedVersion = errors.New("unsupported project version")
	ErrUnknownKind        = errors.New("unknown kind")
)

// Serializer converts live entities into opaque records. Mesh snapshots are
// shaped {"meshes": [...], "geometries": [...]}.
type Serializer interface {
	// ClearCache drops sub-serializations kept between calls.
	ClearCache()

	SerializeNode(n *Node) (Record, error)
	SerializeMaterial(m *Material) (Record, error)
	SerializeTexture(t *Texture) (Record, error)
	SerializeParticleSystem(ps *ParticleSystem) (Record, error)
	SerializeLensFlareSystem(lf *LensFlareSystem) (Record, error)
	SerializeSound(s *Sound) (Record, error)
	SerializeAnimation(a *Animation) (Record, error)
	SerializeShadowGenerator(sg *ShadowGenerator) (Record, error)
	SerializeActionManager(am *ActionManager) (Record, error)
	SerializeRenderTarget(rt *RenderTarget) (Record, error)
	SerializeReflectionProbe(p *ReflectionProbe) (Record, error)
	SerializePostProcess(pp *PostProcess) (Record, error)
}

// Parser rebuilds live entities from records. Parsed objects are not added
// to any scene; references are looked up through the Resolver.
type Parser interface {
	ParseGeometry(rec Record) (*Geometry, error)
	ParseMesh(rec Record, res Resolver) (*Node, error)
	ParseLight(rec Record, res Resolver) (*Node, error)
	ParseCamera(rec Record, res Resolver) (*Node, error)
	ParseMaterial(rec Record, res Resolver) (*Material, error)
	ParseTexture(rec Record, res Resolver) (*Texture, error)
	ParseParticleSystem(rec Record, res Resolver) (*ParticleSystem, error)
	ParseLensFlareSystem(rec Record, res Resolver) (*LensFlareSystem, error)
	ParseSound(rec Record, res Resolver) (*Sound, error)
	ParseAnimation(rec Record) (*Animation, error)
	// ParseShadowGenerator drops render list entries that do not resolve
	// and returns their ids.
	ParseShadowGenerator(rec Record, res Resolver) (*ShadowGenerator, []string, error)
	ParseActionManager(rec Record) (*ActionManager, error)
	ParseRenderTarget(rec Record) (*RenderTarget, error)
	ParseReflectionProbe(rec Record) (*ReflectionProbe, error)
}

type Codec interface {
	Serializer
	Parser
}
