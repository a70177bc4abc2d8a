// Package shader holds the GLSL ES 3.00 sources of every render pipeline.
// Desktop contexts receive them through the translator package.
package shader

// ────────────────────────────────── Vertex stages ───────────────────────────────

// objectVertexSource places a mesh with the model and camera matrices.
const objectVertexSource = `#version 300 es
uniform mat4 model;
uniform mat4 camera;

layout (location = 0) in vec2 a_pos;
layout (location = 1) in vec2 a_tex;

out vec2 v_tex;

void main() {
    gl_Position = camera * model * vec4(a_pos, 0.0, 1.0);
    v_tex = a_tex;
}
`

// blitVertexSource takes positions already in clip space.
const blitVertexSource = `#version 300 es
layout (location = 0) in vec2 a_pos;
layout (location = 1) in vec2 a_tex;

out vec2 v_tex;

void main() {
    gl_Position = vec4(a_pos, 0.0, 1.0);
    v_tex = a_tex;
}
`

// ───────────────────────────────── Fragment stages ──────────────────────────────

const flatColorFragmentSource = `#version 300 es
precision mediump float;
uniform vec4 color;

in vec2 v_tex;
out vec4 frag_color;

void main() {
    frag_color = color;
}
`

const planarTextureFragmentSource = `#version 300 es
precision mediump float;
uniform sampler2D txtre;
uniform vec4 color;

in vec2 v_tex;
out vec4 frag_color;

void main() {
    frag_color = texture(txtre, v_tex) * color;
}
`

// BT.601 full range, chroma planes at half resolution
const chromaVideoFragmentSource = `#version 300 es
precision mediump float;
uniform sampler2D tex_y;
uniform sampler2D tex_cb;
uniform sampler2D tex_cr;

in vec2 v_tex;
out vec4 frag_color;

vec3 yuv_to_rgb(vec2 uv) {
    float y  = texture(tex_y, uv).r;
    float cb = texture(tex_cb, uv).r - 0.5;
    float cr = texture(tex_cr, uv).r - 0.5;
    return vec3(y + 1.402 * cr,
                y - 0.344 * cb - 0.714 * cr,
                y + 1.772 * cb);
}

void main() {
    frag_color = vec4(yuv_to_rgb(v_tex), 1.0);
}
`

const sdfTextFragmentSource = `#version 300 es
precision mediump float;
uniform sampler2D txtre;
uniform vec4 color;

in vec2 v_tex;
out vec4 frag_color;

void main() {
    float sig_dist = texture(txtre, v_tex).a * 2.0 - 1.0;
    float alpha = smoothstep(-0.1, 0.1, sig_dist);
    frag_color = vec4(color.rgb, color.a * alpha);
}
`

// The crossfade draws one unit quad covering the canvas; each photo is
// sampled through its own placement rectangle and the background shows
// outside of it.
const crossfadeFragmentSource = `#version 300 es
precision mediump float;
uniform sampler2D from_y;
uniform sampler2D from_cb;
uniform sampler2D from_cr;
uniform sampler2D to_y;
uniform sampler2D to_cb;
uniform sampler2D to_cr;
uniform float progress;
uniform vec2 from_pos;
uniform vec2 from_size;
uniform vec2 to_pos;
uniform vec2 to_size;
uniform vec4 color;

in vec2 v_tex;
out vec4 frag_color;

vec3 yuv_to_rgb(float y, float cb, float cr) {
    cb -= 0.5;
    cr -= 0.5;
    return vec3(y + 1.402 * cr,
                y - 0.344 * cb - 0.714 * cr,
                y + 1.772 * cb);
}

bool inside(vec2 uv) {
    return uv.x >= 0.0 && uv.x <= 1.0 && uv.y >= 0.0 && uv.y <= 1.0;
}

vec3 sample_from(vec2 canvas_uv) {
    vec2 uv = (canvas_uv - from_pos) / from_size;
    if (!inside(uv)) {
        return color.rgb;
    }
    uv.y = 1.0 - uv.y;
    return yuv_to_rgb(texture(from_y, uv).r, texture(from_cb, uv).r, texture(from_cr, uv).r);
}

vec3 sample_to(vec2 canvas_uv) {
    vec2 uv = (canvas_uv - to_pos) / to_size;
    if (!inside(uv)) {
        return color.rgb;
    }
    uv.y = 1.0 - uv.y;
    return yuv_to_rgb(texture(to_y, uv).r, texture(to_cb, uv).r, texture(to_cr, uv).r);
}

void main() {
    vec2 canvas_uv = vec2(v_tex.x, 1.0 - v_tex.y);
    frag_color = vec4(mix(sample_from(canvas_uv), sample_to(canvas_uv), clamp(progress, 0.0, 1.0)), 1.0);
}
`

const blitFragmentSource = `#version 300 es
precision mediump float;
uniform sampler2D screen;

in vec2 v_tex;
out vec4 frag_color;

void main() {
    frag_color = texture(screen, v_tex);
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

// Source is a vertex + fragment pair ready for graphics.Device.CreateProgram.
type Source struct {
	Name     string
	Vertex   string
	Fragment string
}

func FlatColor() Source {
	return Source{Name: "flat_color", Vertex: objectVertexSource, Fragment: flatColorFragmentSource}
}

func PlanarTexture() Source {
	return Source{Name: "planar_texture", Vertex: objectVertexSource, Fragment: planarTextureFragmentSource}
}

func ChromaVideo() Source {
	return Source{Name: "chroma_video", Vertex: objectVertexSource, Fragment: chromaVideoFragmentSource}
}

func SDFText() Source {
	return Source{Name: "sdf_text", Vertex: objectVertexSource, Fragment: sdfTextFragmentSource}
}

func Crossfade() Source {
	return Source{Name: "crossfade", Vertex: objectVertexSource, Fragment: crossfadeFragmentSource}
}

// Blit copies the off-screen colour target onto the surface.
func Blit() Source {
	return Source{Name: "blit", Vertex: blitVertexSource, Fragment: blitFragmentSource}
}
