// Package pixel converts FITS image payloads to float64 samples.
//
// FITS stores image samples big-endian with a width and class selected by
// the BITPIX keyword:
//
//	BITPIX | stored type       | Go type read
//	-------|-------------------|-------------
//	8      | unsigned byte     | uint8
//	16     | two's complement  | int16
//	32     | two's complement  | int32
//	64     | two's complement  | int64
//	-32    | IEEE 754 single   | float32
//	-64    | IEEE 754 double   | float64
//
// Every sample is widened to float64 so calibration and collapse work on a
// single representation. Integer images may declare a BLANK value marking
// undefined samples; those decode to NaN, the same representation floating
// point images use for missing data.
//
// # Usage
//
//	values, err := pixel.Decode(raw, -32, 512*512, nil)
//	mask := pixel.NaNMask(values)
package pixel
