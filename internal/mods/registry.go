package mods

import "sort"

// Factory builds a fresh mod instance. Stateful mods (anti-eleven) need one
// instance per room, so the registry stores constructors rather than values.
type Factory func() Mod

type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

func (r *Registry) Register(id string, f Factory) {
	r.factories[id] = f
}

// New instantiates the mod with the given id, or nil if unknown.
func (r *Registry) New(id string) Mod {
	f, ok := r.factories[id]
	if !ok {
		return nil
	}
	return f()
}

// IDs lists registered mod ids in stable order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Pipeline builds an ordered pipeline from the requested mod ids, skipping
// ids the registry does not know.
func (r *Registry) Pipeline(ids ...string) *Pipeline {
	p := NewPipeline()
	for _, id := range ids {
		if m := r.New(id); m != nil {
			p.Add(m)
		}
	}
	return p
}

// DefaultRegistry registers the built-in rule variants.
func DefaultRegistry(seed int64) *Registry {
	r := NewRegistry()
	r.Register(PartnerCeilingID, func() Mod { return NewPartnerCeiling() })
	r.Register(SuicideSpadesID, func() Mod { return NewSuicideSpades() })
	r.Register(AntiElevenID, func() Mod { return NewAntiEleven(seed) })
	r.Register(JokerSpadesID, func() Mod { return NewJokerSpades() })
	return r
}
