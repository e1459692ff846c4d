package editproj

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/flywave/go3d/vec3"
	"github.com/go-playground/validator"
	"github.com/invopop/jsonschema"
)

// AutoPlayEntry 启动时自动播放的对象
type AutoPlayEntry struct {
	Name string     `json:"name"`
	Type ObjectType `json:"type" jsonschema:"enum=Scene,enum=Node,enum=Sound,enum=ParticleSystem"`
}

// GlobalConfiguration 全局播放设置
type GlobalConfiguration struct {
	GlobalAnimationSpeed float32          `json:"globalAnimationSpeed"`
	FramesPerSecond      float32          `json:"framesPerSecond"`
	AnimatedAtLaunch     []*AutoPlayEntry `json:"animatedAtLaunch" validate:"dive,required"`
}

// MaterialRecord groups every mesh sharing one material instance.
type MaterialRecord struct {
	MeshesNames      []string `json:"meshesNames"`
	NewInstance      bool     `json:"newInstance"`
	SerializedValues Record   `json:"serializedValues"`

	material *Material
}

type ParticleSystemRecord struct {
	HasEmitter          bool    `json:"hasEmitter"`
	EmitterPosition     *vec3.T `json:"emitterPosition,omitempty"`
	SerializationObject Record  `json:"serializationObject"`
}

type AnimationRecord struct {
	TargetName          string     `json:"targetName"`
	TargetType          ObjectType `json:"targetType"`
	SerializationObject Record     `json:"serializationObject"`
	Events              []any      `json:"events"`
}

// NodeRecord 节点记录. SerializationObject 仅在节点本身为新增时存在
type NodeRecord struct {
	Name                string             `json:"name"`
	ID                  string             `json:"id"`
	Type                ObjectType         `json:"type" jsonschema:"enum=Scene,enum=Sound,enum=Light,enum=Camera,enum=Mesh"`
	Animations          []*AnimationRecord `json:"animations" validate:"dive,required"`
	SerializationObject Record             `json:"serializationObject,omitempty"`
	Actions             Record             `json:"actions,omitempty"`
}

type PostProcessRecord struct {
	Attach              bool   `json:"attach"`
	Name                string `json:"name"`
	SerializationObject Record `json:"serializationObject"`
}

type LensFlareRecord struct {
	SerializationObject Record `json:"serializationObject"`
}

type RenderTargetRecord struct {
	IsProbe             bool   `json:"isProbe"`
	SerializationObject Record `json:"serializationObject"`
}

type SoundRecord struct {
	Name                string `json:"name"`
	SerializationObject Record `json:"serializationObject"`
}

// Document 工程文档
type Document struct {
	Version             uint32                  `json:"version,omitempty"`
	GlobalConfiguration *GlobalConfiguration    `json:"globalConfiguration" validate:"required" jsonschema:"required"`
	Materials           []*MaterialRecord       `json:"materials" validate:"required,dive,required" jsonschema:"required"`
	ParticleSystems     []*ParticleSystemRecord `json:"particleSystems" validate:"required,dive,required" jsonschema:"required"`
	Nodes               []*NodeRecord           `json:"nodes" validate:"required,dive,required" jsonschema:"required"`
	ShadowGenerators    []Record                `json:"shadowGenerators" validate:"required,dive,required" jsonschema:"required"`
	PostProcesses       []*PostProcessRecord    `json:"postProcesses" validate:"required,dive,required" jsonschema:"required"`
	LensFlares          []*LensFlareRecord      `json:"lensFlares" validate:"required,dive,required" jsonschema:"required"`
	RenderTargets       []*RenderTargetRecord   `json:"renderTargets" validate:"omitempty,dive,required"`
	Actions             Record                  `json:"actions,omitempty"`
	Sounds              []*SoundRecord          `json:"sounds" validate:"omitempty,dive,required"`
	RequestedMaterials  []string                `json:"requestedMaterials,omitempty"`
	CustomMetadatas     *MetadataStore          `json:"customMetadatas"`
}

func newDocument() *Document {
	return &Document{
		Version:          ProjectVersion,
		Materials:        []*MaterialRecord{},
		ParticleSystems:  []*ParticleSystemRecord{},
		Nodes:            []*NodeRecord{},
		ShadowGenerators: []Record{},
		PostProcesses:    []*PostProcessRecord{},
		LensFlares:       []*LensFlareRecord{},
		RenderTargets:    []*RenderTargetRecord{},
		Sounds:           []*SoundRecord{},
		CustomMetadatas:  NewMetadataStore(),
	}
}

func nonNil[T any](l []*T) []*T {
	out := l[:0]
	for _, it := range l {
		if it != nil {
			out = append(out, it)
		}
	}
	return out
}

// compact 去掉文档中的 null 条目
func (d *Document) compact() {
	d.Materials = nonNil(d.Materials)
	d.ParticleSystems = nonNil(d.ParticleSystems)
	d.Nodes = nonNil(d.Nodes)
	d.PostProcesses = nonNil(d.PostProcesses)
	d.LensFlares = nonNil(d.LensFlares)
	d.RenderTargets = nonNil(d.RenderTargets)
	d.Sounds = nonNil(d.Sounds)
	for _, nr := range d.Nodes {
		nr.Animations = nonNil(nr.Animations)
	}
	if d.GlobalConfiguration != nil {
		d.GlobalConfiguration.AnimatedAtLaunch = nonNil(d.GlobalConfiguration.AnimatedAtLaunch)
	}
	if d.CustomMetadatas == nil {
		d.CustomMetadatas = NewMetadataStore()
	}
}

// ParseDocument decodes and checks a project document. Optional
// collections missing from older documents are defaulted to empty.
func ParseDocument(data []byte) (*Document, error) {
	doc := &Document{CustomMetadatas: NewMetadataStore()}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Version > ProjectVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	if err := validator.New().Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.RenderTargets == nil {
		doc.RenderTargets = []*RenderTargetRecord{}
	}
	if doc.Sounds == nil {
		doc.Sounds = []*SoundRecord{}
	}
	if doc.CustomMetadatas == nil {
		doc.CustomMetadatas = NewMetadataStore()
	}
	return doc, nil
}

// Marshal 写出格式化的 JSON
func (d *Document) Marshal(indent string) ([]byte, error) {
	if indent == "" {
		return json.Marshal(d)
	}
	return json.MarshalIndent(d, "", indent)
}

// DocumentSchema returns the JSON Schema of the project document.
func DocumentSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	s := r.ReflectFromType(reflect.TypeOf(Document{}))
	s.Title = "Editor project"
	return s
}
