package cache

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey returns the key of a layout computed from the graph with
	// the given hash under opts.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts holds the layout options that change the result.
type LayoutKeyOpts struct {
	Force      bool    `json:"force"`
	Fallback   bool    `json:"fallback"`
	WidthScale float64 `json:"width_scale"`
	NodeSep    float64 `json:"node_sep"`
}

// DefaultKeyer hashes the key components.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256(graphHash, opts)>".
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}
