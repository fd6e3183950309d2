// Package plugins hosts scenario pack subpackages. It contains no runtime code
// itself; this file exists for the architecture guard test alongside it.
//
// Scenario packs talk to the engine through internal/core and its aliases
// only. They must not import pkg/domain directly so the core remains free to
// reshape domain internals behind the alias layer.
package plugins
