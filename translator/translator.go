// Package translator rewrites the GLSL ES 3.00 pipeline sources into the
// dialect of the current context using ANGLE through goshadertranslator.
package translator

import (
	"context"
	"fmt"

	gst "github.com/richinsley/goshadertranslator"
)

// Stage names accepted by Translate.
const (
	StageVertex   = "vertex"
	StageFragment = "fragment"
)

// Shader is a translated stage plus the names ANGLE assigned to its
// uniforms, keyed by the name used in the source.
type Shader struct {
	Code     string
	Uniforms map[string]string
}

// Translator holds one ANGLE instance. It is not safe for concurrent use;
// the renderer only calls it from the GL thread.
type Translator struct {
	t    *gst.ShaderTranslator
	gles bool
}

// New starts the translator. gles selects ESSL output instead of desktop
// GLSL 4.10.
func New(ctx context.Context, gles bool) (*Translator, error) {
	t, err := gst.NewShaderTranslator(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start shader translator: %w", err)
	}
	return &Translator{t: t, gles: gles}, nil
}

// Translate converts one stage.
func (tr *Translator) Translate(stage, source string) (*Shader, error) {
	outputFormat := gst.OutputFormatGLSL410
	if tr.gles {
		outputFormat = gst.OutputFormatESSL
	}
	out, err := tr.t.TranslateShader(source, stage, gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return nil, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}
	s := &Shader{Code: out.Code, Uniforms: make(map[string]string, len(out.Variables))}
	for name, v := range out.Variables {
		s.Uniforms[name] = v.MappedName
	}
	return s, nil
}
