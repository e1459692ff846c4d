package editproj

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Texture 纹理. Buffer 保存加载时的原始文件数据, 为 nil 表示未保留
type Texture struct {
	Name     string
	URL      string
	Kind     TextureKind
	Width    int
	Height   int
	Level    float32
	HasAlpha bool
	Buffer   []byte
}

func NewTexture(name string) *Texture {
	return &Texture{Name: name, URL: name, Kind: TextureDefault, Level: 1}
}

// HasBuffer reports whether the raw payload was retained.
func (t *Texture) HasBuffer() bool {
	return t != nil && len(t.Buffer) > 0
}

// Base64 returns the raw payload as standard base64, empty when not retained.
func (t *Texture) Base64() string {
	if !t.HasBuffer() {
		return ""
	}
	return base64.StdEncoding.EncodeToString(t.Buffer)
}

// TextureFromBase64 creates a brand new texture from an inlined payload.
func TextureFromBase64(name string, data string) (*Texture, error) {
	buf, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", name, err)
	}
	t := NewTexture(name)
	t.Buffer = buf
	if cfg, err := decodeImageConfig(name, buf); err == nil {
		t.Width, t.Height = cfg.Width, cfg.Height
	}
	return t, nil
}

// LoadTexture 读取纹理文件, retain 为 false 时不保留原始数据
func LoadTexture(path string, retain bool) (*Texture, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	_, fn := filepath.Split(path)
	t := NewTexture(fn)
	t.URL = path
	cfg, err := decodeImageConfig(fn, buf)
	if err != nil {
		return nil, err
	}
	t.Width, t.Height = cfg.Width, cfg.Height
	if retain {
		t.Buffer = buf
	}
	return t, nil
}

// TextureFromImage 将图像编码为 PNG 纹理
func TextureFromImage(img image.Image, name string) (*Texture, error) {
	bf := bytes.NewBuffer(nil)
	if err := png.Encode(bf, img); err != nil {
		return nil, err
	}
	bd := img.Bounds()
	t := NewTexture(name)
	t.Width = bd.Dx()
	t.Height = bd.Dy()
	t.HasAlpha = true
	t.Buffer = bf.Bytes()
	return t, nil
}

// Image decodes the retained payload.
func (t *Texture) Image() (image.Image, error) {
	if !t.HasBuffer() {
		return nil, errors.New("texture buffer not retained")
	}
	rd := bytes.NewReader(t.Buffer)
	switch format := imageFormat(t.Name, t.Buffer); format {
	case "png":
		return png.Decode(rd)
	case "jpeg":
		return jpeg.Decode(rd)
	case "gif":
		return gif.Decode(rd)
	case "bmp":
		return bmp.Decode(rd)
	case "tiff":
		return tiff.Decode(rd)
	case "tga":
		return tga.Decode(rd)
	default:
		return nil, fmt.Errorf("unknown image format %q", t.Name)
	}
}

var mimeTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"tga":  "image/x-tga",
}

// MimeType 根据数据判断图像类型
func (t *Texture) MimeType() string {
	if !t.HasBuffer() {
		return ""
	}
	if mt, ok := mimeTypes[imageFormat(t.Name, t.Buffer)]; ok {
		return mt
	}
	return "application/octet-stream"
}

var imageMagics = []struct {
	format string
	magic  string
}{
	{"png", "\x89PNG\r\n\x1a\n"},
	{"jpeg", "\xff\xd8\xff"},
	{"gif", "GIF87a"},
	{"gif", "GIF89a"},
	{"bmp", "BM"},
	{"tiff", "II*\x00"},
	{"tiff", "MM\x00*"},
}

// imageFormat 先看文件头, 再看扩展名. tga 没有文件头, 只认扩展名.
// 不走 image.DecodeConfig: tga 以空 magic 注册, 会吞掉所有格式
func imageFormat(name string, buf []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".tga" {
		return "tga"
	}
	for _, m := range imageMagics {
		if bytes.HasPrefix(buf, []byte(m.magic)) {
			return m.format
		}
	}
	switch ext {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	}
	return ""
}

func decodeImageConfig(name string, buf []byte) (image.Config, error) {
	rd := bytes.NewReader(buf)
	switch imageFormat(name, buf) {
	case "png":
		return png.DecodeConfig(rd)
	case "jpeg":
		return jpeg.DecodeConfig(rd)
	case "gif":
		return gif.DecodeConfig(rd)
	case "bmp":
		return bmp.DecodeConfig(rd)
	case "tiff":
		return tiff.DecodeConfig(rd)
	case "tga":
		img, err := tga.Decode(rd)
		if err != nil {
			return image.Config{}, err
		}
		bd := img.Bounds()
		return image.Config{ColorModel: img.ColorModel(), Width: bd.Dx(), Height: bd.Dy()}, nil
	}
	return image.Config{}, fmt.Errorf("unknown image format %q", name)
}
