// Package opc reads and writes the zipped part containers that Office
// documents are stored in.
//
// A DOCX or PPTX file is a ZIP archive of named parts: XML parts such as
// word/document.xml or ppt/slides/slide1.xml next to binary parts such as
// embedded images. This package models the archive as an ordered part map
// with lookup, replacement, removal, and deterministic serialization.
//
// # Key Concepts
//
// Part names are archive paths without a leading slash ("word/document.xml").
// Kind classifies a package as a word document or a slide deck by which
// primary part it carries. Serialization preserves the original part order
// and appends new parts at the end, so unchanged parts survive a round trip
// byte for byte.
//
// Errors carry their category: CorruptArchiveError for unreadable input,
// MissingPartError for absent required parts, EncodingError for part bytes
// that are not valid UTF-8, IOError for filesystem failures. Match them
// with the IsCorruptArchiveError, IsMissingPartError, IsEncodingError, and
// IsIOError helpers.
//
// Most users will not use this package directly; the fill package opens,
// mutates, and saves packages through it.
package opc
