package iso8583

import "log/slog"

// Message is a flat field-id -> value map: "0" holds the MTI, "2".."128"
// hold top-level data elements, and dotted keys ("127.2", "127.25.3",
// "120.4") hold nested composite/extension sub-fields. Encode and Decode
// fold the dotted keys into and out of the wire's nested DE 127/127.25/120
// representations; callers never see the synthetic top-level "127"/"120"
// values the codec uses internally.

// Encode serializes msg to wire bytes per opts.
func Encode(msg Message, opts ...Option) ([]byte, error) {
	o := resolveOptions(opts...)

	working, err := expandComposites(msg, o)
	if err != nil {
		return nil, err
	}

	mti := working["0"]
	if err := ValidateMTI(mti, o.MTIAllowList); err != nil {
		return nil, err
	}

	bm := BuildBitmap(working, "", 2*segmentWidth)

	var out []byte
	out = append(out, o.StaticMeta...)
	out = append(out, []byte(mti)...)
	out = append(out, bm.Encode(o.BitmapEncoding)...)

	for _, n := range bm.PresentFields() {
		key := constructFieldKey("", n)
		f, ok := o.Formats.Get(key)
		if !ok {
			return nil, newErr(KindUnknownField, key, nil)
		}
		b, err := EncodeField(key, working[key], f)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}

	if o.TCPLenHeader {
		out = append(encodeTCPHeader(len(out)), out...)
	}
	return out, nil
}

// expandComposites computes the synthetic "127" and "120" top-level values
// from a message's dotted sub-field keys, returning a new map that leaves
// msg untouched. DE 127.25 is folded into DE 127's sub-field 25 before DE
// 127 itself is encoded, since 127.25 only ever travels nested inside 127.
func expandComposites(msg Message, o Options) (Message, error) {
	working := make(Message, len(msg))
	for k, v := range msg {
		working[k] = v
	}

	if anyKeyWithPrefix(msg, "127.25.") {
		b, err := EncodeExtension(msg, o.Formats, "127.25.", o.BitmapEncoding)
		if err != nil {
			return nil, err
		}
		working["127.25"] = string(b)
	}
	if anyKeyWithPrefix(msg, "127.") || working["127.25"] != "" {
		b, err := EncodeExtension(working, o.Formats, "127.", o.BitmapEncoding)
		if err != nil {
			return nil, err
		}
		working["127"] = string(b)
	}
	if anyKeyWithPrefix(msg, "120.") {
		if o.CompositeClient == "" {
			return nil, newErr(KindInvalidCompositeData, "120", nil)
		}
		b, err := EncodeComposite(o.CompositeClient, msg, o.Composites)
		if err != nil {
			return nil, err
		}
		working["120"] = string(b)
	}

	return working, nil
}

// Decode parses wire bytes into a Message per opts.
func Decode(data []byte, opts ...Option) (Message, error) {
	o := resolveOptions(opts...)

	rest := data
	if o.TCPLenHeader {
		head, tail, err := sliceBytes(rest, 0, 2)
		if err != nil {
			return nil, wrapErr(KindBufferTooSmall, "", err)
		}
		n, err := extractTCPHeader(head)
		if err != nil {
			return nil, err
		}
		if len(tail) != n {
			return nil, newErr(KindInvalidLength, "", map[string]any{"declared": n, "actual": len(tail)})
		}
		rest = tail
	}

	if len(o.StaticMeta) > 0 {
		head, tail, err := sliceBytes(rest, 0, len(o.StaticMeta))
		if err != nil {
			return nil, wrapErr(KindBufferTooSmall, "", err)
		}
		if string(head) != string(o.StaticMeta) {
			return nil, newErr(KindInvalidLength, "", map[string]any{"reason": "static_meta_mismatch"})
		}
		rest = tail
	}

	mtiBytes, rest, err := sliceBytes(rest, 0, 4)
	if err != nil {
		return nil, wrapErr(KindMTIMissing, "0", err)
	}
	mti := string(mtiBytes)
	if err := ValidateMTI(mti, o.MTIAllowList); err != nil {
		return nil, err
	}

	bm, rest, err := DecodeBitmap(rest, o.BitmapEncoding)
	if err != nil {
		return nil, err
	}

	working := make(Message)
	working["0"] = mti
	for _, n := range bm.PresentFields() {
		key := constructFieldKey("", n)
		f, ok := o.Formats.Get(key)
		if !ok {
			return nil, newErr(KindUnknownField, key, nil)
		}
		value, tail, err := DecodeField(key, rest, f)
		if err != nil {
			return nil, err
		}
		working[key] = value
		rest = tail
	}

	return collapseComposites(working, o)
}

// collapseComposites is the inverse of expandComposites: it removes the
// synthetic "127"/"120" top-level values and replaces them with their
// dotted leaf-key expansion.
func collapseComposites(msg Message, o Options) (Message, error) {
	if raw, ok := msg["127"]; ok {
		delete(msg, "127")
		sub, _, err := DecodeExtension([]byte(raw), o.Formats, "127.", o.BitmapEncoding)
		if err != nil {
			return nil, err
		}
		for k, v := range sub {
			msg[k] = v
		}
	}
	if raw, ok := msg["120"]; ok {
		delete(msg, "120")
		if o.CompositeClient == "" {
			return nil, newErr(KindInvalidCompositeData, "120", nil)
		}
		sub, err := DecodeComposite(o.CompositeClient, []byte(raw), o.Composites)
		if err != nil {
			return nil, err
		}
		for k, v := range sub {
			msg[k] = v
		}
	}
	return msg, nil
}

// LogValue implements slog.LogValuer, logging the MTI and present field
// count without dumping potentially sensitive field values (PANs, PINs,
// track data).
func (msg Message) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("mti", msg["0"]),
		slog.Int("fields", len(msg)),
	)
}
