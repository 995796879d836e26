package stringquery

// Structural limits applied when the corresponding Config field is zero.
const (
	DefaultMaxNestingLevel   = 100
	DefaultMaxGroupCount     = 100
	DefaultMaxValuesPerField = 1000
)

// Config bounds the shape of accepted queries. It is read-only once
// handed to a Processor; zero values fall back to the defaults above.
type Config struct {
	// MaxNestingLevel bounds how deep groups may nest. The root group
	// sits at level zero.
	MaxNestingLevel int
	// MaxGroupCount bounds the number of direct sub-groups within one
	// parent group.
	MaxGroupCount int
	// MaxValuesPerField bounds the accepted entries per field, unless
	// the field's configuration overrides it.
	MaxValuesPerField int
}

func (c Config) withDefaults() Config {
	if c.MaxNestingLevel <= 0 {
		c.MaxNestingLevel = DefaultMaxNestingLevel
	}
	if c.MaxGroupCount <= 0 {
		c.MaxGroupCount = DefaultMaxGroupCount
	}
	if c.MaxValuesPerField <= 0 {
		c.MaxValuesPerField = DefaultMaxValuesPerField
	}
	return c
}
