// File: internal/mailer/template.go
package mailer

import (
	"embed"
	"fmt"
	"sync"

	"github.com/osteele/liquid"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer 以 Liquid 渲染內嵌模板，已解析的模板會快取
type Renderer struct {
	engine *liquid.Engine
	cache  sync.Map // map[string]*liquid.Template
}

// NewRenderer 建立模板渲染器
func NewRenderer() *Renderer {
	return &Renderer{engine: liquid.NewEngine()}
}

// Render 以 data 渲染名稱為 name 的模板
func (r *Renderer) Render(name string, data map[string]any) (string, error) {
	tpl, err := r.template(name)
	if err != nil {
		return "", err
	}
	out, serr := tpl.RenderString(data)
	if serr != nil {
		return "", fmt.Errorf("render %s: %w", name, serr)
	}
	return out, nil
}

func (r *Renderer) template(name string) (*liquid.Template, error) {
	if cached, ok := r.cache.Load(name); ok {
		return cached.(*liquid.Template), nil
	}
	src, err := templatesFS.ReadFile("templates/" + name)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}
	tpl, serr := r.engine.ParseTemplate(src)
	if serr != nil {
		return nil, fmt.Errorf("parse %s: %w", name, serr)
	}
	r.cache.Store(name, tpl)
	return tpl, nil
}
