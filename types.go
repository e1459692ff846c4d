package editproj

const ProjectV1 uint32 = 1

// ProjectVersion 当前写出的文档版本
const ProjectVersion = ProjectV1

// 标签名
const (
	TagAdded               = "added"
	TagModified            = "modified"
	TagAddedParticleSystem = "added_particlesystem"
	TagFurShellMaterial    = "furShellMaterial"
	TagFurAdded            = "FurAdded"
)

// ObjectType 文档中记录的对象类型
type ObjectType string

const (
	TypeScene          ObjectType = "Scene"
	TypeNode           ObjectType = "Node"
	TypeSound          ObjectType = "Sound"
	TypeParticleSystem ObjectType = "ParticleSystem"
	TypeLight          ObjectType = "Light"
	TypeCamera         ObjectType = "Camera"
	TypeMesh           ObjectType = "Mesh"
)

// NodeKind 节点种类
type NodeKind int

const (
	NodeMesh NodeKind = iota
	NodeLight
	NodeCamera
)

func (k NodeKind) String() string {
	switch k {
	case NodeMesh:
		return "Mesh"
	case NodeLight:
		return "Light"
	case NodeCamera:
		return "Camera"
	}
	return "Unknown"
}

// ObjectType maps a node kind to its document type.
func (k NodeKind) ObjectType() ObjectType {
	switch k {
	case NodeLight:
		return TypeLight
	case NodeCamera:
		return TypeCamera
	}
	return TypeMesh
}

func nodeKindOf(t ObjectType) (NodeKind, bool) {
	switch t {
	case TypeMesh:
		return NodeMesh, true
	case TypeLight:
		return NodeLight, true
	case TypeCamera:
		return NodeCamera, true
	}
	return 0, false
}

// MaterialKind 材质种类
type MaterialKind int

const (
	MaterialStandard MaterialKind = iota
	MaterialPBR
	MaterialMulti
	MaterialCustom
)

const (
	ClassStandardMaterial = "StandardMaterial"
	ClassPBRMaterial      = "PBRMaterial"
	ClassMultiMaterial    = "MultiMaterial"
)

// TextureKind 纹理种类
type TextureKind string

const (
	TextureDefault      TextureKind = "Texture"
	TextureCube         TextureKind = "CubeTexture"
	TextureHDRCube      TextureKind = "HDRCubeTexture"
	TextureRenderTarget TextureKind = "RenderTargetTexture"
	TextureProbe        TextureKind = "ReflectionProbe"
)

const (
	LIGHT_TYPE_POINT       = "point"
	LIGHT_TYPE_DIRECTIONAL = "directional"
	LIGHT_TYPE_SPOT        = "spot"
	LIGHT_TYPE_HEMISPHERIC = "hemispheric"
)

const (
	ANIMATION_LOOP_RELATIVE = 0
	ANIMATION_LOOP_CYCLE    = 1
	ANIMATION_LOOP_CONSTANT = 2
)
