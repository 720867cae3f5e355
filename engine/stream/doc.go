// Package stream resolves raw stream records from a streams document into
// typed, immutable Resolved values.
//
// Resolution is pure: it reads the record and, for interval references of the
// form "stream:<name>:<attribute>", the referenced record in the Catalog.
// References are dereferenced exactly one hop. Only ValidateOutputPath touches
// the filesystem, through the FileSystem capability.
package stream
