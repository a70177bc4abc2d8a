package gldevice

import (
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/photoframe/graphics"
	"github.com/richinsley/photoframe/translator"
)

// CreateProgram translates, compiles and links one pipeline. Shader objects
// are always deleted; the program is deleted when linking fails.
func (d *Device) CreateProgram(name, vertexSource, fragmentSource string) (uint32, error) {
	mapped := make(map[string]string)
	if d.translator != nil {
		vs, err := d.translator.Translate(translator.StageVertex, vertexSource)
		if err != nil {
			return 0, &graphics.ShaderError{Name: name, Stage: "translate vertex", Log: err.Error()}
		}
		fs, err := d.translator.Translate(translator.StageFragment, fragmentSource)
		if err != nil {
			return 0, &graphics.ShaderError{Name: name, Stage: "translate fragment", Log: err.Error()}
		}
		for k, v := range vs.Uniforms {
			mapped[k] = v
		}
		for k, v := range fs.Uniforms {
			mapped[k] = v
		}
		vertexSource, fragmentSource = vs.Code, fs.Code
	}

	vertexShader, err := compileShader(name, vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(name, fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logText))
		gl.DeleteProgram(program)
		return 0, &graphics.ShaderError{Name: name, Stage: "link", Log: strings.TrimRight(logText, "\x00")}
	}

	d.uniforms[program] = mapped
	d.logger.Debug("linked program", "name", name, "id", program)
	return program, nil
}

func (d *Device) DeleteProgram(program uint32) {
	delete(d.uniforms, program)
	gl.DeleteProgram(program)
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	if m, ok := d.uniforms[program][name]; ok {
		name = m
	}
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func compileShader(name, source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		stage := "compile fragment"
		if shaderType == gl.VERTEX_SHADER {
			stage = "compile vertex"
		}
		return 0, &graphics.ShaderError{Name: name, Stage: stage, Log: strings.TrimRight(logText, "\x00")}
	}
	return shader, nil
}
