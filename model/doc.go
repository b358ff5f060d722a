// Package model provides the intermediate representation (IR) shared by the
// format parsers and the markup generator.
//
// Every parser builds exactly one [Document] per input file and the
// generator reads it once. Nothing mutates a Document after the parser
// returns it.
//
// # Pages
//
// [Page] is a closed set of three variants, one per source paradigm:
//
//   - [FlowPage] - reflowable text (word processing)
//   - [FixedPage] - absolutely positioned elements (slides)
//   - [TablePage] - a single spreadsheet grid with anchored charts
//
// # Blocks
//
// Flow content is a sequence of [Block] values: [Paragraph], [Table],
// [Image], [FloatingImage], [List], [MathEquation], [Chart] and
// [PageBreak]. Blocks nest inside table cells and list items.
//
// # Units
//
// All lengths in the IR are points. Parsers convert from their native
// units (twips, EMUs, half-points, character widths) exactly once using the
// helpers in units.go.
//
// # Tables
//
// A [TableCell] with ColSpan or RowSpan equal to zero is a merge
// continuation marker: it is absorbed by a preceding merged cell and never
// occupies a grid slot of its own.
package model
