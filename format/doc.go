// Package format declares the output formats supported by the encoder and
// the error values shared across the document packages.
//
// # Related Packages
//
//   - github.com/yamldoc/go-yamldoc/parse - Parses text into document trees
//   - github.com/yamldoc/go-yamldoc/encode - Encodes document trees to text
package format
