package editproj

import (
	"fmt"
	"sync"
)

// 内置后处理管线名
const (
	PipelineHDR  = "hdr"
	PipelineSSAO = "ssao"
)

// PostProcess 后处理管线, 参数对核心流程不透明
type PostProcess struct {
	Name      string
	ClassName string
	Params    Record
	Textures  map[string]*Texture
	Cameras   []*Node
}

func (pp *PostProcess) TextureFields() map[string]*Texture {
	return pp.Textures
}

// Attach adds the pipeline to cam, once.
func (pp *PostProcess) Attach(cam *Node) {
	for _, c := range pp.Cameras {
		if c == cam {
			return
		}
	}
	pp.Cameras = append(pp.Cameras, cam)
}

// Detach removes the pipeline from every camera.
func (pp *PostProcess) Detach() {
	pp.Cameras = nil
}

func (pp *PostProcess) Attached() bool {
	return len(pp.Cameras) > 0
}

// PostProcessBuilder 根据记录参数构建管线, 默认挂到场景所有相机
type PostProcessBuilder func(scn *Scene, params Record, textures map[string]*Texture) (*PostProcess, error)

// PostProcesses 当前场景的管线单例及其构建函数
type PostProcesses struct {
	mu       sync.Mutex
	active   []*PostProcess
	builders map[string]PostProcessBuilder
}

func NewPostProcesses() *PostProcesses {
	p := &PostProcesses{builders: make(map[string]PostProcessBuilder)}
	p.Register(PipelineHDR, standardPipeline(PipelineHDR, "HDRRenderingPipeline"))
	p.Register(PipelineSSAO, standardPipeline(PipelineSSAO, "SSAORenderingPipeline"))
	return p
}

func standardPipeline(name, class string) PostProcessBuilder {
	return func(scn *Scene, params Record, textures map[string]*Texture) (*PostProcess, error) {
		pp := &PostProcess{Name: name, ClassName: class, Params: params, Textures: textures}
		if pp.Params == nil {
			pp.Params = Record{}
		}
		delete(pp.Params, "className")
		for _, cam := range scn.Cameras {
			pp.Attach(cam)
		}
		return pp, nil
	}
}

func (p *PostProcesses) Register(name string, b PostProcessBuilder) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.builders[name] = b
}

// Build constructs the named pipeline and makes it the active singleton of
// that name.
func (p *PostProcesses) Build(name string, scn *Scene, params Record, textures map[string]*Texture) (*PostProcess, error) {
	p.mu.Lock()
	b, ok := p.builders[name]
	p.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("post process %q: %w", name, ErrUnknownKind)
	}
	pp, err := b(scn, params, textures)
	if err != nil {
		return nil, fmt.Errorf("post process %q: %w", name, err)
	}
	pp.Name = name
	p.Set(pp)
	return pp, nil
}

// Set replaces the active pipeline with the same name.
func (p *PostProcesses) Set(pp *PostProcess) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, a := range p.active {
		if a.Name == pp.Name {
			p.active[i] = pp
			return
		}
	}
	p.active = append(p.active, pp)
}

func (p *PostProcesses) Get(name string) *PostProcess {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, a := range p.active {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Active returns the active pipelines in creation order.
func (p *PostProcesses) Active() []*PostProcess {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*PostProcess(nil), p.active...)
}

// Reset drops the active pipelines, builders stay registered.
func (p *PostProcesses) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = nil
}
