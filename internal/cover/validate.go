package cover

import "image"

// BrightnessMean computes the arithmetic mean of all raw pixel byte
// values, alpha channel included. Byte-exact for the common decoded
// layouts; other formats go through the generic 8-bit conversion.
func BrightnessMean(img image.Image) float64 {
	switch im := img.(type) {
	case *image.NRGBA:
		return byteMean(im.Pix)
	case *image.RGBA:
		return byteMean(im.Pix)
	case *image.Gray:
		return byteMean(im.Pix)
	}

	bounds := img.Bounds()
	var sum, count uint64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			sum += uint64(r>>8) + uint64(g>>8) + uint64(b>>8) + uint64(a>>8)
			count += 4
		}
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

// Valid reports whether the image passes the brightness filter. Means
// below minBrightness or above maxBrightness indicate a near-solid
// black or white placeholder; the bounds themselves are accepted.
func Valid(img image.Image, minBrightness, maxBrightness float64) bool {
	mean := BrightnessMean(img)
	return mean >= minBrightness && mean <= maxBrightness
}

func byteMean(pix []byte) float64 {
	if len(pix) == 0 {
		return 0
	}
	var sum uint64
	for _, b := range pix {
		sum += uint64(b)
	}
	return float64(sum) / float64(len(pix))
}
