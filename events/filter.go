package events

// TypeFilter is an include-set over event type tags. A nil *TypeFilter
// accepts every event.
type TypeFilter struct {
	include map[EventType]struct{}
}

// NewTypeFilter builds a filter accepting only the listed types. An empty
// list yields a filter that accepts nothing; pass nil instead of a filter
// to accept everything.
func NewTypeFilter(types ...EventType) *TypeFilter {
	f := &TypeFilter{include: make(map[EventType]struct{}, len(types))}
	for _, t := range types {
		f.include[t] = struct{}{}
	}
	return f
}

// Accepts reports whether the event's type tag is in the include set.
func (f *TypeFilter) Accepts(ev DexEvent) bool {
	if f == nil {
		return true
	}
	_, ok := f.include[ev.EventMetadata().Type]
	return ok
}

// AcceptsType reports whether the tag itself is in the include set.
func (f *TypeFilter) AcceptsType(t EventType) bool {
	if f == nil {
		return true
	}
	_, ok := f.include[t]
	return ok
}
