package iso8583

import "strconv"

// CompositeSpec maps DE 120 sub-field keys ("120.1", ...) to their 3-digit
// wire tag and declares the canonical pack order, since Go map iteration
// order over a Message is unspecified.
type CompositeSpec struct {
	Tags  map[string]int
	Order []string
}

// CompositeRegistry holds named DE 120 sub-field schemes, so a caller can
// plug in a client-specific dialect without touching the codec itself.
type CompositeRegistry struct {
	specs map[string]*CompositeSpec
}

// NewCompositeRegistry returns an empty registry.
func NewCompositeRegistry() *CompositeRegistry {
	return &CompositeRegistry{specs: make(map[string]*CompositeSpec)}
}

// Register adds or replaces the spec for client.
func (cr *CompositeRegistry) Register(client string, spec *CompositeSpec) {
	cr.specs[client] = spec
}

// Get returns the spec registered for client, if any.
func (cr *CompositeRegistry) Get(client string) (*CompositeSpec, bool) {
	if cr == nil {
		return nil, false
	}
	s, ok := cr.specs[client]
	return s, ok
}

// ppnTags is the PPN client's closed recognized-tag table: any wire tag
// not listed here is rejected with invalid_composite_data rather than
// silently decoded.
var ppnTags = []int{1, 45, 46, 47, 50, 56, 62, 70, 71, 72, 73, 74, 75}

// DefaultCompositeRegistry registers the "PPN" client scheme: the fixed
// set of recognized DE 120 sub-fields (Transaction Type, Remitter/
// Beneficiary Name, ... Remitter Transaction Reference), each keyed by
// its own tag number.
func DefaultCompositeRegistry() *CompositeRegistry {
	cr := NewCompositeRegistry()
	spec := &CompositeSpec{Tags: make(map[string]int)}
	for _, n := range ppnTags {
		key := constructFieldKey("120.", n)
		spec.Tags[key] = n
		spec.Order = append(spec.Order, key)
	}
	cr.Register("PPN", spec)
	return cr
}

// EncodeComposite packs msg's present "120.N" sub-fields as fixed
// TTT (3-digit tag) + LLL (3-digit length) + value triples, in the spec's
// canonical order rather than Go's unspecified map iteration order.
func EncodeComposite(client string, msg Message, reg *CompositeRegistry) ([]byte, error) {
	spec, ok := reg.Get(client)
	if !ok {
		return nil, newErr(KindInvalidCompositeData, "120", map[string]any{"client": client})
	}

	var out []byte
	for _, key := range spec.Order {
		value, present := msg[key]
		if !present {
			continue
		}
		tag, ok := spec.Tags[key]
		if !ok {
			continue
		}
		if tag < 0 || tag > 999 || len(value) > 999 {
			return nil, newErr(KindInvalidCompositeData, key, map[string]any{"tag": tag, "len": len(value)})
		}
		out = append(out, []byte(padString(strconv.Itoa(tag), '0', 3))...)
		out = append(out, []byte(padString(strconv.Itoa(len(value)), '0', 3))...)
		out = append(out, []byte(value)...)
	}
	return out, nil
}

func tagToKey(spec *CompositeSpec, tag int) (string, bool) {
	for key, t := range spec.Tags {
		if t == tag {
			return key, true
		}
	}
	return "", false
}

// DecodeComposite unpacks tag/length/value triples until data is exhausted.
// Sub-fields always use their on-wire declared LLL length, never a
// hardcoded width, even for the historically fixed-width sub-fields
// (047/050/056 in older encoders) — this codec trusts the declared length.
func DecodeComposite(client string, data []byte, reg *CompositeRegistry) (Message, error) {
	spec, ok := reg.Get(client)
	if !ok {
		return nil, newErr(KindInvalidCompositeData, "120", map[string]any{"client": client})
	}

	out := make(Message)
	rest := data
	for len(rest) > 0 {
		tagBytes, r1, err := sliceBytes(rest, 0, 3)
		if err != nil {
			return nil, wrapErr(KindInvalidCompositeData, "120", err)
		}
		tag, err := parseDigits(tagBytes)
		if err != nil {
			return nil, wrapErr(KindInvalidCompositeData, "120", err)
		}

		lenBytes, r2, err := sliceBytes(r1, 0, 3)
		if err != nil {
			return nil, wrapErr(KindInvalidCompositeData, "120", err)
		}
		n, err := parseDigits(lenBytes)
		if err != nil {
			return nil, wrapErr(KindInvalidCompositeData, "120", err)
		}

		value, r3, err := sliceBytes(r2, 0, n)
		if err != nil {
			return nil, wrapErr(KindInvalidCompositeData, "120", err)
		}

		key, ok := tagToKey(spec, tag)
		if !ok {
			return nil, newErr(KindInvalidCompositeData, "120", map[string]any{"tag": tag})
		}
		out[key] = string(value)
		rest = r3
	}
	return out, nil
}

// EncodeCompositeField is the pluggable composite entry point: encode the
// wire bytes for a client-specific DE 120 sub-field set present in msg.
func EncodeCompositeField(client string, fieldID string, msg Message, opts ...Option) ([]byte, error) {
	o := resolveOptions(opts...)
	if fieldID != "120" {
		return nil, newErr(KindUnknownField, fieldID, nil)
	}
	return EncodeComposite(client, msg, o.Composites)
}

// DecodeCompositeField is the inverse of EncodeCompositeField.
func DecodeCompositeField(client string, fieldID string, data []byte, opts ...Option) (Message, error) {
	o := resolveOptions(opts...)
	if fieldID != "120" {
		return nil, newErr(KindUnknownField, fieldID, nil)
	}
	return DecodeComposite(client, data, o.Composites)
}
