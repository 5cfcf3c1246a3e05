// Package macho scans Mach-O containers for their build identifiers.
//
// It understands single-architecture images (32 and 64-bit, either byte
// order) and universal ("fat") containers that bundle several images behind
// an offset/size index. Only the image header and the load commands are
// parsed; everything else in the file is ignored.
//
// The parser is written for untrusted input. Every length read from the
// buffer is checked against the bytes actually available, and anomalies are
// reported as [Diagnostic] values on a [Report] rather than as errors. The
// entry points [Scan] and [Matches] never fail: a file that cannot be parsed
// simply contains no identifiers.
//
// See https://github.com/apple-oss-distributions/xnu/blob/main/EXTERNAL_HEADERS/mach-o/loader.h
// and mach-o/fat.h for the on-disk layout.
package macho
