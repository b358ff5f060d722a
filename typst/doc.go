// Package typst lowers a [model.Document] into Typst markup plus the image
// files the markup references.
//
// Every page becomes one #page(...)[...] call carrying its own size,
// margins, background and header/footer, so pages of different paradigms
// can follow each other in one output. Flow pages emit their blocks as
// markup; fixed pages place each element at its absolute offset; table
// pages emit a single #table with anchored charts interleaved between row
// groups.
//
// Generate is deterministic: the same document and options always yield
// byte-identical markup and the same asset list. Images are named
// img-1.ext, img-2.ext and so on in document order, and identical image
// bytes share one asset.
package typst
