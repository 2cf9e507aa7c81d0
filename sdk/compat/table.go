package compat

// Table answers capability availability questions for one host session.
// It is built once from the host-reported platform and version plus the
// static compatibility data, so every check is a map lookup. Supports never
// fails: an unknown capability is simply unavailable, letting callers pick
// a legacy fallback path instead of handling errors.
type Table struct {
	platform    string
	version     string
	descriptors map[Capability]Descriptor
	params      map[Capability]map[string]string
	unsupported map[string][]Override // keyed by method
}

// Option customizes a Table at construction time.
type Option func(*Table)

// WithDescriptors replaces or extends built-in capability descriptors.
func WithDescriptors(d map[Capability]Descriptor) Option {
	return func(t *Table) {
		for c, desc := range d {
			t.descriptors[c] = desc
		}
	}
}

// WithOverrides appends known-unsupported overrides.
func WithOverrides(overrides []Override) Option {
	return func(t *Table) {
		for _, o := range overrides {
			t.unsupported[o.Method] = append(t.unsupported[o.Method], o)
		}
	}
}

// WithParams replaces or extends parameter-level version gates.
func WithParams(p map[Capability]map[string]string) Option {
	return func(t *Table) {
		for c, params := range p {
			if t.params[c] == nil {
				t.params[c] = make(map[string]string, len(params))
			}
			for name, min := range params {
				t.params[c][name] = min
			}
		}
	}
}

// NewTable creates a capability table for the given host platform and
// version string.
func NewTable(platform, version string, opts ...Option) *Table {
	t := &Table{
		platform:    platform,
		version:     version,
		descriptors: make(map[Capability]Descriptor, len(defaultDescriptors)),
		params:      make(map[Capability]map[string]string, len(defaultParams)),
		unsupported: make(map[string][]Override),
	}

	for c, d := range defaultDescriptors {
		t.descriptors[c] = d
	}
	for c, params := range defaultParams {
		copied := make(map[string]string, len(params))
		for name, min := range params {
			copied[name] = min
		}
		t.params[c] = copied
	}
	for _, o := range defaultOverrides {
		t.unsupported[o.Method] = append(t.unsupported[o.Method], o)
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Version returns the host-reported version the table was built with.
func (t *Table) Version() string {
	return t.version
}

// Platform returns the host-reported platform.
func (t *Table) Platform() string {
	return t.platform
}

// Supports reports whether every method the capability requires is honored
// by the current host version and not overridden as known-broken.
func (t *Table) Supports(c Capability) bool {
	desc, ok := t.descriptors[c]
	if !ok {
		return false
	}

	if !AtLeast(t.version, desc.MinVersion) {
		return false
	}

	for _, method := range desc.Methods {
		if t.overridden(method) {
			return false
		}
	}
	return true
}

// SupportsParam reports whether an optional payload parameter of the
// capability is honored by the current host. A parameter with no recorded
// gate inherits the capability's own availability.
func (t *Table) SupportsParam(c Capability, param string) bool {
	if !t.Supports(c) {
		return false
	}

	params, ok := t.params[c]
	if !ok {
		return true
	}
	min, ok := params[param]
	if !ok {
		return true
	}
	return AtLeast(t.version, min)
}

// MethodSupported reports whether a raw bridge method passes the version
// gate of whichever capability requires it. Methods not claimed by any
// capability are baseline and always supported.
func (t *Table) MethodSupported(method string) bool {
	if t.overridden(method) {
		return false
	}
	for _, desc := range t.descriptors {
		for _, m := range desc.Methods {
			if m == method {
				return AtLeast(t.version, desc.MinVersion)
			}
		}
	}
	return true
}

func (t *Table) overridden(method string) bool {
	for _, o := range t.unsupported[method] {
		if o.Platform == t.platform && CompareVersions(o.Version, t.version) == 0 {
			return true
		}
	}
	return false
}
