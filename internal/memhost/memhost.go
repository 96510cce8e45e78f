// Package memhost is an in-memory host application. It answers scene
// queries from a fixed entity list and simulates writes, which makes it the
// host for offline runs and for tests.
package memhost

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"sync"

	"github.com/vk/streamgraph/internal/config"
	"github.com/vk/streamgraph/internal/ctxlog"
	"github.com/vk/streamgraph/internal/host"
)

const writerName = "WRITER"

// temporaries maps a manipulation to the entity inserted ahead of the origin.
var temporaries = map[string]struct{ name, class string }{
	"Desaturation": {"EXTRA_DESATURATION", "ColorCorrect"},
	"Flip":         {"EXTRA_FLIP", "Transform"},
}

// Entity is one scene entity.
type Entity struct {
	Name     string
	Class    string
	HasError bool
	// Dependents counts entities consuming this one's output.
	Dependents int
	// Input names the entity feeding this one, if any.
	Input string
}

// Write is a recorded dispatch.
type Write struct {
	Request host.WriteRequest
	// Writer is the name the temporary write entity was created under.
	Writer string
	// Chain lists the entities feeding the writer, from the origin onwards.
	Chain []string
}

// Host is an in-memory implementation of host.Host. It is safe for
// concurrent use.
type Host struct {
	mu       sync.Mutex
	entities map[string]*Entity
	writes   []Write
	// failWith, when set, makes every Dispatch fail after cleanup.
	failWith error
}

// New creates a host holding the given entities.
func New(entities ...Entity) *Host {
	h := &Host{entities: make(map[string]*Entity)}
	for _, e := range entities {
		h.Add(e)
	}
	return h
}

// FromScene creates a host from a loaded scene description.
func FromScene(scene *config.Scene) *Host {
	h := New()
	if scene == nil {
		return h
	}
	for _, e := range scene.Entities {
		h.Add(Entity{Name: e.Name, Class: e.Class, HasError: e.HasError, Dependents: e.Dependents})
	}
	return h
}

// Add inserts or replaces an entity.
func (h *Host) Add(e Entity) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cp := e
	h.entities[e.Name] = &cp
}

// FailDispatch makes subsequent writes return err. Nil restores success.
func (h *Host) FailDispatch(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failWith = err
}

// Writes returns the recorded writes in dispatch order.
func (h *Host) Writes() []Write {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.writes)
}

// Entity returns a copy of the named entity.
func (h *Host) Entity(name string) (Entity, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.entities[name]
	if !ok {
		return Entity{}, false
	}
	return *e, true
}

// SceneEntities lists every non-viewer entity, sorted.
func (h *Host) SceneEntities(_ context.Context) ([]string, error) {
	return h.collect(func(e *Entity) bool { return e.Class != host.ViewerClass }), nil
}

// EntityExists reports whether an entity of any class has the name.
func (h *Host) EntityExists(_ context.Context, name string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.entities[name]
	return ok, nil
}

// EntitiesWithErrors lists entities reporting an error.
func (h *Host) EntitiesWithErrors(_ context.Context) ([]string, error) {
	return h.collect(func(e *Entity) bool { return e.HasError }), nil
}

// EntitiesMatching lists entities whose name matches pattern at its start.
func (h *Host) EntitiesMatching(_ context.Context, pattern string) ([]string, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return h.collect(func(e *Entity) bool { return re.MatchString(e.Name) }), nil
}

// DisconnectedInputs lists entities of class nothing consumes.
func (h *Host) DisconnectedInputs(_ context.Context, class string) ([]string, error) {
	return h.collect(func(e *Entity) bool { return e.Class == class && e.Dependents == 0 }), nil
}

// EntitiesOfClass lists entities of the class.
func (h *Host) EntitiesOfClass(_ context.Context, class string) ([]string, error) {
	return h.collect(func(e *Entity) bool { return e.Class == class }), nil
}

// Dispatch simulates a write: manipulation entities are chained ahead of
// the origin in request order, the write is recorded and every temporary
// entity is removed again, whatever the outcome.
func (h *Host) Dispatch(ctx context.Context, req host.WriteRequest) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Host dispatch started.", "request", req.String())

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.entities[req.Origin]; !ok {
		return fmt.Errorf("%w: %s", host.ErrUnknownEntity, req.Origin)
	}
	if req.StartFrame > req.EndFrame {
		return fmt.Errorf("invalid frame range %d-%d", req.StartFrame, req.EndFrame)
	}

	var created []string
	defer func() {
		for _, name := range created {
			delete(h.entities, name)
		}
	}()
	writer := h.createLocked(writerName, "Write")
	created = append(created, writer.Name)

	chain := []string{req.Origin}
	for _, m := range req.Manipulations {
		tmp, ok := temporaries[m]
		if !ok {
			return fmt.Errorf("unsupported manipulation '%s'", m)
		}
		e := h.createLocked(tmp.name, tmp.class)
		e.Input = chain[len(chain)-1]
		created = append(created, e.Name)
		chain = append(chain, e.Name)
	}
	writer.Input = chain[len(chain)-1]

	if h.failWith != nil {
		return h.failWith
	}

	h.writes = append(h.writes, Write{Request: req, Writer: writer.Name, Chain: chain})
	logger.Debug("Host dispatch finished.", "chain", chain)
	return nil
}

// createLocked adds a temporary entity named base, or base followed by the
// first free number when a scene entity already holds that name.
func (h *Host) createLocked(base, class string) *Entity {
	name := base
	for i := 1; ; i++ {
		if _, taken := h.entities[name]; !taken {
			break
		}
		name = fmt.Sprintf("%s%d", base, i)
	}
	e := &Entity{Name: name, Class: class}
	h.entities[name] = e
	return e
}

func (h *Host) collect(keep func(*Entity) bool) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, e := range h.entities {
		if keep(e) {
			out = append(out, e.Name)
		}
	}
	sort.Strings(out)
	return out
}
