package scenario

import (
	"bytes"
	_ "embed"
	"sync"
)

// DefaultFile is the file name reported for the built-in story.
const DefaultFile = "black_moon.yaml"

//go:embed data/black_moon.yaml
var blackMoon []byte

var loadDefault = sync.OnceValues(func() (*Scenario, error) {
	s, err := Load(bytes.NewReader(blackMoon))
	if err != nil {
		return nil, err
	}
	s.FileName = DefaultFile
	return s, nil
})

// Default returns the built-in Black Moon story. It is parsed once and
// shared, which is safe because a Scenario is read-only.
func Default() (*Scenario, error) {
	return loadDefault()
}

// DefaultSource returns the raw YAML of the built-in story.
func DefaultSource() []byte {
	return bytes.Clone(blackMoon)
}
