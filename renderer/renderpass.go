package renderer

import (
	"fmt"

	"github.com/richinsley/photoframe/graphics"
)

func (r *Renderer) renderFirstPass(canvas *Canvas) (FrameStats, error) {
	var stats FrameStats
	list := canvas.DrawList()

	r.offscreenRenderer.Bind()
	r.device.SetRenderState(graphics.RenderState{})
	r.device.Clear(r.background)

	u := Uniforms{Camera: canvas.Camera().Matrix()}

	for i, t := range list.Transitions {
		mesh, okMesh := canvas.mesh(t.MeshID)
		pipe, okPipe := r.registry.Transition(t.PipelineID)
		from, okFrom := canvas.material(t.FromID)
		to, okTo := canvas.material(t.ToID)
		if !okMesh || !okPipe || !okFrom || !okTo {
			stats.Skipped++
			continue
		}
		u.Model = identity
		u.MaterialID = int32(t.FromID)
		u.Color = r.background
		u.Progress = t.Progress
		u.FromPos, u.FromSize = t.FromPos, t.FromSize
		u.ToPos, u.ToSize = t.ToPos, t.ToSize
		if err := pipe.Render(mesh, from, to, &u); err != nil {
			if isSkippable(err) {
				stats.Skipped++
				continue
			}
			return stats, fmt.Errorf("transition %d: %w", i, err)
		}
		stats.Transitions++
	}

	for i, obj := range list.Objects {
		mesh, okMesh := canvas.mesh(obj.MeshID)
		pipe, okPipe := r.registry.Object(obj.PipelineID)
		material, okMat := canvas.material(obj.MaterialID)
		if !okMesh || !okPipe || !okMat {
			stats.Skipped++
			continue
		}
		u.Model = obj.Transform
		u.MaterialID = int32(obj.MaterialID)
		u.Color = obj.Color
		if err := pipe.Render(mesh, material, &u); err != nil {
			if isSkippable(err) {
				stats.Skipped++
				continue
			}
			return stats, fmt.Errorf("object %d: %w", i, err)
		}
		stats.Objects++
	}
	return stats, nil
}

func (r *Renderer) renderSecondPass() {
	r.device.BindFramebuffer(0)
	r.device.Viewport(0, 0, r.width, r.height)
	r.blit.use(graphics.RenderState{})
	r.blit.bindSampler("screen", 0, r.offscreenRenderer.ColorTexture())
	r.device.DrawArrays(r.quad.VAO, r.quad.Mode, r.quad.Count)
}
