package iso8583

import "log/slog"

// Options configures a single Encode/Decode call. DefaultOptions() gives
// sane behavior; callers override it with Option functions, the same
// pattern the donor codec uses for MessageOption/PackagerOption.
type Options struct {
	TCPLenHeader    bool
	BitmapEncoding  BitmapEncoding
	Formats         *FormatRegistry
	Strategy        FormatStrategy
	StaticMeta      []byte
	MTIAllowList    []string
	CompositeClient string
	Composites      *CompositeRegistry
}

// Option is a functional option for Options.
type Option func(*Options)

// DefaultOptions returns the baseline configuration: TCP length header on,
// hex (raw-byte) bitmap encoding, the built-in DE 2-128/127/127.25/120
// format catalogue, no static meta prefix, the default MTI allow-list, and
// the "PPN" DE 120 composite scheme.
func DefaultOptions() Options {
	return Options{
		TCPLenHeader:    true,
		BitmapEncoding:  BitmapHex,
		Formats:         DefaultFormats(),
		Strategy:        StrategyMerge,
		MTIAllowList:    DefaultMTIAllowList(),
		CompositeClient: "PPN",
		Composites:      DefaultCompositeRegistry(),
	}
}

func resolveOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithTCPLenHeader(enabled bool) Option {
	return func(o *Options) { o.TCPLenHeader = enabled }
}

func WithBitmapEncoding(enc BitmapEncoding) Option {
	return func(o *Options) { o.BitmapEncoding = enc }
}

// WithFormats replaces the active registry with reg according to strategy:
// StrategyReplace (set via an earlier WithFormatStrategy option) uses reg
// alone; StrategyMerge, the default, layers reg's entries on top of
// whatever is already active (typically the built-in catalogue).
func WithFormats(reg *FormatRegistry) Option {
	return func(o *Options) {
		if o.Strategy == StrategyReplace {
			o.Formats = reg
			return
		}
		o.Formats = MergeFormats(o.Formats, reg)
	}
}

func WithFormatStrategy(s FormatStrategy) Option {
	return func(o *Options) { o.Strategy = s }
}

func WithStaticMeta(meta []byte) Option {
	return func(o *Options) { o.StaticMeta = meta }
}

func WithMTIAllowList(allow []string) Option {
	return func(o *Options) { o.MTIAllowList = allow }
}

func WithCompositeClient(client string) Option {
	return func(o *Options) { o.CompositeClient = client }
}

func WithComposites(reg *CompositeRegistry) Option {
	return func(o *Options) { o.Composites = reg }
}

// LogValue implements slog.LogValuer, mirroring CompiledPackager.LogValue
// in the donor codec.
func (o Options) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Bool("tcp_len_header", o.TCPLenHeader),
		slog.Any("bitmap_encoding", o.BitmapEncoding),
		slog.Any("strategy", o.Strategy),
		slog.Int("static_meta_len", len(o.StaticMeta)),
		slog.String("composite_client", o.CompositeClient),
	}
	if o.Formats != nil {
		attrs = append(attrs, slog.Int("format_count", o.Formats.Len()))
	}
	return slog.GroupValue(attrs...)
}
