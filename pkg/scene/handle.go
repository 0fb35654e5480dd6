package scene

import "sync"

// Handle owns a mutable scene shared between an editor and a renderer.
// Mutations and renders both run under the same lock, so a pass never
// observes a half-applied edit. A dirty flag records whether the last
// successful render is stale.
type Handle struct {
	mu    sync.Mutex
	scene *Scene
	dirty bool
}

// NewHandle wraps scene. A new handle starts dirty.
func NewHandle(scene *Scene) *Handle {
	return &Handle{scene: scene, dirty: true}
}

// Update applies fn to the scene and marks the handle dirty
func (h *Handle) Update(fn func(*Scene)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	fn(h.scene)
	h.dirty = true
}

// View runs fn with read access to the scene without changing the dirty flag
func (h *Handle) View(fn func(*Scene)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	fn(h.scene)
}

// MarkDirty forces the next RenderIfDirty to render
func (h *Handle) MarkDirty() {
	h.mu.Lock()
	h.dirty = true
	h.mu.Unlock()
}

// Dirty reports whether the scene changed since the last successful render
func (h *Handle) Dirty() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dirty
}

// RenderIfDirty calls render when the scene is dirty and reports whether it did.
// The flag is cleared only when render succeeds.
func (h *Handle) RenderIfDirty(render func(*Scene) error) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.dirty {
		return false, nil
	}
	if err := render(h.scene); err != nil {
		return true, err
	}
	h.dirty = false
	return true, nil
}
