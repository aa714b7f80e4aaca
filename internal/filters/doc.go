// Package filters implements the standard PDF stream decoding filters.
//
// Filters are looked up by their PDF name, full or abbreviated:
//
//	decoded, err := filters.Decode("FlateDecode", data, params)
//
// # Supported Filters
//
//   - FlateDecode (Fl): zlib/deflate, with TIFF (2) and PNG (10-15) predictors
//   - LZWDecode (LZW): with EarlyChange and the same predictors
//   - ASCIIHexDecode (AHx)
//   - ASCII85Decode (A85)
//   - RunLengthDecode (RL)
//   - CCITTFaxDecode (CCF): Group 3 and Group 4 fax data
//
// DCTDecode and JPXDecode are image codecs; their data is returned as-is.
//
// # Decode Parameters
//
// Filters read their parameters from a Params map built from the stream's
// /DecodeParms dictionary:
//
//	params := filters.Params{
//	    "Predictor": 12,
//	    "Columns":   100,
//	}
package filters
