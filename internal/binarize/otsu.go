package binarize

import "image"

// Histogram counts 8-bit gray levels.
func Histogram(gray *image.Gray) [256]int {
	var h [256]int
	b := gray.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
		for _, v := range row {
			h[v]++
		}
	}
	return h
}

// OtsuThreshold returns the gray level maximizing the between-class variance.
// Pixels at or below the level form the dark class.
func OtsuThreshold(hist [256]int) uint8 {
	total := 0
	var sum float64
	for i, c := range hist {
		total += c
		sum += float64(i) * float64(c)
	}
	if total == 0 {
		return 0
	}

	var (
		sumB        float64
		wB          int
		maxVariance float64
		best        int
	)
	for t := range hist {
		wB += hist[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}

		sumB += float64(t) * float64(hist[t])
		meanB := sumB / float64(wB)
		meanF := (sum - sumB) / float64(wF)

		// between-class variance
		variance := float64(wB) * float64(wF) * (meanB - meanF) * (meanB - meanF)
		if variance > maxVariance {
			maxVariance = variance
			best = t
		}
	}
	return uint8(best)
}
