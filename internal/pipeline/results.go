package pipeline

import "github.com/MeKo-Tech/eanscan/internal/ean13"

// ScanResult is the per-image outcome of the pipeline.
type ScanResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	Code        string  `json:"code"` // 13 characters, '?' for unknown digits
	Digits      [13]int `json:"digits"`
	CountryCode int     `json:"country_code"` // -1 when the parity pattern is unknown

	// ChecksumOK is the weighted-sum test over the digits as read, undecoded
	// ones included; it can hold while Undecoded > 0. Valid combines both.
	ChecksumOK bool `json:"checksum_ok"`
	Undecoded  int  `json:"undecoded_digits"`
	Reversed   bool `json:"reversed"`
	Mirrored   bool `json:"mirrored"`

	Geometry struct {
		X     float64 `json:"x"`
		Y     float64 `json:"y"`
		Angle float64 `json:"angle"`
	} `json:"geometry"`
	ScanlineLength int `json:"scanline_length"`
	Bars           int `json:"bars"`

	Binarization struct {
		Threshold uint8   `json:"threshold"`
		InkRatio  float64 `json:"ink_ratio"`
	} `json:"binarization"`

	Processing struct {
		BinarizeNs int64 `json:"binarize_ns"`
		DecodeNs   int64 `json:"decode_ns"`
		TotalNs    int64 `json:"total_ns"`
	} `json:"processing"`

	// Error holds the structural failure when a result is kept for reporting.
	Error string `json:"error,omitempty"`
}

// Decoding rebuilds the core decoding value.
func (r *ScanResult) Decoding() ean13.Decoding {
	return ean13.Decoding{CountryCode: r.CountryCode, Digits: r.Digits}
}

// Formatted renders the code as "C LLLLLL RRRRRR".
func (r *ScanResult) Formatted() string {
	if r == nil || r.Error != "" {
		return ""
	}
	return r.Decoding().String()
}

// Decoded reports whether a full decoding was produced.
func (r *ScanResult) Decoded() bool { return r != nil && r.Error == "" }

// Valid reports whether the code is complete and the checksum holds.
func (r *ScanResult) Valid() bool {
	return r.Decoded() && r.Undecoded == 0 && r.ChecksumOK
}

// NewFailedResult records a structural failure for a width x height image:
// every digit is undecodable and Error holds err's text.
func NewFailedResult(width, height int, err error) *ScanResult {
	res := &ScanResult{Width: width, Height: height, CountryCode: ean13.UnknownCountry}
	for i := range res.Digits {
		res.Digits[i] = ean13.Undecodable
	}
	res.Code = res.Decoding().Code()
	res.Error = err.Error()
	return res
}
