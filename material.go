package editproj

// Material 材质. Standard 材质由基础场景文件重建, 不写入工程文档
type Material struct {
	ID          string
	Name        string
	Kind        MaterialKind
	CustomClass string
	Alpha       float32
	Diffuse     [3]float32
	Emissive    [3]float32
	Properties  map[string]any
	Textures    map[string]*Texture

	SubMaterials []*Material
}

func NewMaterial(name string, kind MaterialKind) *Material {
	return &Material{ID: NewID(), Name: name, Kind: kind, Alpha: 1, Diffuse: [3]float32{1, 1, 1}}
}

func NewCustomMaterial(name string, class string) *Material {
	m := NewMaterial(name, MaterialCustom)
	m.CustomClass = class
	return m
}

// ClassName 材质类名
func (m *Material) ClassName() string {
	switch m.Kind {
	case MaterialStandard:
		return ClassStandardMaterial
	case MaterialPBR:
		return ClassPBRMaterial
	case MaterialMulti:
		return ClassMultiMaterial
	}
	return m.CustomClass
}

func (m *Material) SetTexture(field string, tex *Texture) {
	if m.Textures == nil {
		m.Textures = make(map[string]*Texture)
	}
	m.Textures[field] = tex
}

func (m *Material) TextureFields() map[string]*Texture {
	return m.Textures
}

// replaceSubMaterial swaps the sub material with the same id or name as sub.
func (m *Material) replaceSubMaterial(sub *Material) bool {
	for i, s := range m.SubMaterials {
		if s != nil && (s.ID == sub.ID || s.Name == sub.Name) {
			m.SubMaterials[i] = sub
			return true
		}
	}
	return false
}
