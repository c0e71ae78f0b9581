// Package docx reads and writes .docx (Office Open XML) packages.
//
// [Decode] converts a package into a [document.Document]: the body is walked
// in order so paragraphs and tables stay interleaved, paragraph styles are
// resolved through word/styles.xml and classified into roles, and list kinds
// come from word/numbering.xml. Section breaks become separate sections.
//
// [Encode] produces a fresh, minimal package from a document. Formatting is
// written explicitly on every run, paragraph, row and cell.
package docx
