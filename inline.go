package editproj

// 内联纹理字段名
const (
	FieldBase64String      = "base64String"
	FieldTextureName       = "textureName"
	FieldBase64TextureName = "base64TextureName"
	FieldBase64Texture     = "base64Texture"
	FieldBase64Name        = "base64Name"
	FieldBase64Buffer      = "base64Buffer"
)

// TextureOwner exposes the texture valued properties of a live object,
// keyed by the name of the matching serialized field.
type TextureOwner interface {
	TextureFields() map[string]*Texture
}

// InlineTextureFields attaches the raw payload of every retained texture of
// src onto the same-named field of rec. src is never modified.
func InlineTextureFields(src TextureOwner, rec Record) Record {
	return InlineTextureFieldsAs(src, rec, FieldBase64String)
}

// InlineTextureFieldsAs is InlineTextureFields with a custom payload field.
func InlineTextureFieldsAs(src TextureOwner, rec Record, field string) Record {
	if src == nil || rec == nil {
		return rec
	}
	for name, tex := range src.TextureFields() {
		if !tex.HasBuffer() {
			continue
		}
		sub, ok := rec.Record(name)
		if !ok {
			continue
		}
		sub[field] = tex.Base64()
	}
	return rec
}

func inlineParticleTexture(ps *ParticleSystem, rec Record) {
	if !ps.Texture.HasBuffer() {
		return
	}
	delete(rec, FieldTextureName)
	rec[FieldBase64TextureName] = ps.Texture.Name
	rec[FieldBase64Texture] = ps.Texture.Base64()
}

func inlineFlareTextures(lf *LensFlareSystem, rec Record) {
	flares := rec.Records("flares")
	for i, f := range lf.Flares {
		if i >= len(flares) {
			break
		}
		if !f.Texture.HasBuffer() {
			continue
		}
		delete(flares[i], FieldTextureName)
		flares[i][FieldBase64Name] = f.Texture.Name
		flares[i][FieldBase64Buffer] = f.Texture.Base64()
	}
}

// inlinedTexture rebuilds a texture from a name/payload field pair, nil when
// the record carries no payload.
func inlinedTexture(rec Record, nameField, dataField string) (*Texture, error) {
	data := rec.String(dataField)
	if data == "" {
		return nil, nil
	}
	return TextureFromBase64(rec.String(nameField), data)
}
