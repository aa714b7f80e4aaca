package filters

import "fmt"

// unpredict reverses the /Predictor transform shared by FlateDecode and LZWDecode.
// 1 means no prediction, 2 is the TIFF predictor and 10-15 are the PNG ones.
func unpredict(data []byte, params Params) ([]byte, error) {
	predictor := params.Int("Predictor", 1)
	switch {
	case predictor == 1:
		return data, nil
	case predictor == 2:
		return tiffPredictor(data, params)
	case predictor >= 10 && predictor <= 15:
		return pngPredictor(data, params)
	default:
		return nil, fmt.Errorf("unsupported predictor: %d", predictor)
	}
}

type rowLayout struct {
	bytesPerPixel int
	rowLen        int
}

func layoutOf(params Params) (rowLayout, error) {
	columns := params.Int("Columns", 1)
	colors := params.Int("Colors", 1)
	bpc := params.Int("BitsPerComponent", 8)
	if columns < 1 || colors < 1 {
		return rowLayout{}, fmt.Errorf("invalid predictor layout: %d columns, %d colors", columns, colors)
	}
	switch bpc {
	case 1, 2, 4, 8, 16:
	default:
		return rowLayout{}, fmt.Errorf("invalid BitsPerComponent: %d", bpc)
	}
	bpp := colors * bpc / 8
	if bpp < 1 {
		bpp = 1
	}
	return rowLayout{bytesPerPixel: bpp, rowLen: (columns*colors*bpc + 7) / 8}, nil
}

// tiffPredictor adds each sample to the one to its left. Only 8-bit
// components are supported.
func tiffPredictor(data []byte, params Params) ([]byte, error) {
	if bpc := params.Int("BitsPerComponent", 8); bpc != 8 {
		return nil, fmt.Errorf("TIFF predictor only supports 8 bits per component, got %d", bpc)
	}
	layout, err := layoutOf(params)
	if err != nil {
		return nil, err
	}
	if len(data)%layout.rowLen != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), layout.rowLen)
	}

	out := make([]byte, len(data))
	copy(out, data)
	for start := 0; start < len(out); start += layout.rowLen {
		row := out[start : start+layout.rowLen]
		for i := layout.bytesPerPixel; i < len(row); i++ {
			row[i] += row[i-layout.bytesPerPixel]
		}
	}
	return out, nil
}

// pngPredictor decodes rows that each start with a PNG filter type byte.
// A trailing partial row is dropped.
func pngPredictor(data []byte, params Params) ([]byte, error) {
	layout, err := layoutOf(params)
	if err != nil {
		return nil, err
	}
	stride := layout.rowLen + 1
	rows := len(data) / stride

	out := make([]byte, 0, rows*layout.rowLen)
	prev := make([]byte, layout.rowLen)
	for r := 0; r < rows; r++ {
		src := data[r*stride : (r+1)*stride]
		row := make([]byte, layout.rowLen)
		copy(row, src[1:])
		if err := unfilterRow(src[0], row, prev, layout.bytesPerPixel); err != nil {
			return nil, fmt.Errorf("row %d: %w", r, err)
		}
		out = append(out, row...)
		prev = row
	}
	return out, nil
}

func unfilterRow(filter byte, row, prev []byte, bpp int) error {
	switch filter {
	case 0: // None
	case 1: // Sub
		for i := bpp; i < len(row); i++ {
			row[i] += row[i-bpp]
		}
	case 2: // Up
		for i := range row {
			row[i] += prev[i]
		}
	case 3: // Average
		for i := range row {
			var left int
			if i >= bpp {
				left = int(row[i-bpp])
			}
			row[i] += byte((left + int(prev[i])) / 2)
		}
	case 4: // Paeth
		for i := range row {
			var left, upLeft byte
			if i >= bpp {
				left = row[i-bpp]
				upLeft = prev[i-bpp]
			}
			row[i] += paeth(left, prev[i], upLeft)
		}
	default:
		return fmt.Errorf("unknown PNG filter type: %d", filter)
	}
	return nil
}

// paeth picks whichever of left, up and upper-left is closest to left+up-upLeft.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
