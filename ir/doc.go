// Package ir decodes the wire-format Pass/Block JSON document (spec §6,
// "Input (consumed)") and converts it into the core package's InputBlock
// shape. It is the one external collaborator spec.md places out of scope
// ("Input parsing / schema migration") that this repository nonetheless
// supplies a concrete implementation of, since a runnable repository needs
// one.
//
// ir never interprets Instructions beyond carrying it opaquely
// (json.RawMessage) through to the renderer, exactly as spec §6 requires.
package ir
