// Package filter implements the stream filters applied around FITS files.
//
// FITS files are routinely distributed gzip-compressed (".fits.gz"). The
// FITS decoder itself only sees the uncompressed byte stream, so a filter is
// selected per file and wrapped around the raw file handle:
//
//   - [Identity]: passes bytes through unchanged.
//   - [Gzip]: gzip compression via github.com/klauspost/compress/gzip.
//
// On read, [Detect] inspects the leading magic bytes so a compressed file is
// recognized regardless of its name. On write, [ForPath] picks the filter
// from the file extension.
package filter
