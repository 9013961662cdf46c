package tamis

import (
	_ "embed"
)

// SampleYaml is a starter config, written out by "tamis sample".
//
//go:embed sample.yaml
var SampleYaml []byte
