package domain

// Config carries engine-wide settings shared by the matcher, the aggregator
// and cursors.
type Config struct {
	// IDKey is the name of the identity field distinguished by `$group`,
	// `$project` and cursor identity logic.
	IDKey string
}

// DefaultConfig returns the configuration used when no option overrides it.
func DefaultConfig() Config {
	return Config{IDKey: "_id"}
}

// ConfigOption configures a [Config] through the functional options pattern.
type ConfigOption func(*Config)

// WithIDKey renames the identity field.
func WithIDKey(key string) ConfigOption {
	return func(c *Config) {
		if key != "" {
			c.IDKey = key
		}
	}
}

// E is a single ordered key-value entry of a [D] document.
type E struct {
	Key   string
	Value any
}

// D is an ordered document, used where key declaration order is significant:
// multi-key `$sort` specifications and `$group`/`$project` shapes whose field
// order should survive. Plain maps are accepted everywhere a D is, but
// iterate in sorted-key order.
type D []E
