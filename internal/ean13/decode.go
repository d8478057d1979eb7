package ean13

// Options tunes a Decoder.
type Options struct {
	// VerifyGuards re-checks the middle and end guards at their expected offsets.
	VerifyGuards bool
}

// DefaultOptions returns the options used by Decode.
func DefaultOptions() Options {
	return Options{VerifyGuards: true}
}

// Result is a decoding together with the intermediate values that produced it.
type Result struct {
	Decoding   Decoding
	Geometry   Geometry
	Scanline   int     // number of samples
	Bars       int     // number of bars
	Guard      int     // quiet-zone bar index before the start guard
	Units      [12]TVal
	Digits     []Digit // scanned order, before orientation
	Reversed   bool
	ChecksumOK bool
}

// Decoder runs the decode pipeline. It holds no state between calls and may
// be shared by goroutines.
type Decoder struct {
	opts Options
}

// NewDecoder returns a decoder with the given options.
func NewDecoder(opts Options) *Decoder {
	return &Decoder{opts: opts}
}

// Options returns the decoder configuration.
func (d *Decoder) Options() Options { return d.opts }

// Decode runs the full pipeline on a binary mask with default options.
func Decode(m Mask) (Decoding, error) {
	res, err := NewDecoder(DefaultOptions()).Decode(m)
	if err != nil {
		return Decoding{}, err
	}
	return res.Decoding, nil
}

// Decode estimates the scan line of m, samples it and decodes the bars.
func (d *Decoder) Decode(m Mask) (*Result, error) {
	g, err := EstimateGeometry(m)
	if err != nil {
		return nil, err
	}
	line, err := Sample(m, g)
	if err != nil {
		return nil, err
	}
	bars, err := Segment(line)
	if err != nil {
		return nil, err
	}
	res, err := d.DecodeBars(bars)
	if err != nil {
		return nil, err
	}
	res.Geometry = g
	res.Scanline = len(line)
	return res, nil
}

// DecodeScanline decodes an already sampled scanline.
func (d *Decoder) DecodeScanline(line Scanline) (*Result, error) {
	bars, err := Segment(line)
	if err != nil {
		return nil, err
	}
	res, err := d.DecodeBars(bars)
	if err != nil {
		return nil, err
	}
	res.Scanline = len(line)
	return res, nil
}

// DecodeBars locates the guard in bars and decodes the twelve data digits.
func (d *Decoder) DecodeBars(bars []Bar) (*Result, error) {
	guard, err := LocateGuard(bars)
	if err != nil {
		return nil, err
	}
	if d.opts.VerifyGuards {
		if err := VerifyGuards(bars, guard); err != nil {
			return nil, err
		}
	}
	units, err := NormalizeUnits(bars, guard)
	if err != nil {
		return nil, err
	}
	scanned := DecodeDigits(units)
	oriented, reversed := Orient(scanned)
	dec := Assemble(oriented)
	return &Result{
		Decoding:   dec,
		Bars:       len(bars),
		Guard:      guard,
		Units:      units,
		Digits:     scanned,
		Reversed:   reversed,
		ChecksumOK: Validate(dec),
	}, nil
}

// UndecodedDigits counts data digits that did not match the symbol table.
func (r *Result) UndecodedDigits() int {
	n := 0
	for _, dg := range r.Digits {
		if !dg.Valid() {
			n++
		}
	}
	return n
}
