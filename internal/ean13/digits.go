package ean13

// Parity is the symbol set a digit was encoded with.
type Parity uint8

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

func (p Parity) String() string {
	switch p {
	case ParityOdd:
		return "odd"
	case ParityEven:
		return "even"
	default:
		return "none"
	}
}

// Undecodable is the value of a digit whose unit matched no table entry.
const Undecodable = -1

// Digit is a decoded data digit. Value is Undecodable when the lookup failed.
type Digit struct {
	Value  int
	Parity Parity
}

// Valid reports whether the digit was decoded.
func (d Digit) Valid() bool {
	return d.Value >= 0 && d.Value <= 9 && d.Parity != ParityNone
}

// anyT4 marks table keys whose (t1, t2) pair is unambiguous.
const anyT4 = 0

type symbolKey struct {
	t1, t2, t4 int
}

// symbolTable maps normalized units to digits. Units are read so that
// odd-parity (L) left digits arrive as reversed L patterns, while even-parity
// (G) left digits and all right (R) digits arrive as forward L patterns.
// Four (t1, t2) pairs are shared by two digits and split on t4.
var symbolTable = map[symbolKey]Digit{
	// odd parity
	{2, 3, anyT4}: {0, ParityOdd},
	{3, 4, 2}:     {1, ParityOdd},
	{4, 3, 2}:     {2, ParityOdd},
	{2, 5, anyT4}: {3, ParityOdd},
	{5, 4, anyT4}: {4, ParityOdd},
	{4, 5, anyT4}: {5, ParityOdd},
	{5, 2, anyT4}: {6, ParityOdd},
	{3, 4, 1}:     {7, ParityOdd},
	{4, 3, 1}:     {8, ParityOdd},
	{3, 2, anyT4}: {9, ParityOdd},

	// even parity
	{5, 3, anyT4}: {0, ParityEven},
	{4, 4, 1}:     {1, ParityEven},
	{3, 3, 2}:     {2, ParityEven},
	{5, 5, anyT4}: {3, ParityEven},
	{2, 4, anyT4}: {4, ParityEven},
	{3, 5, anyT4}: {5, ParityEven},
	{2, 2, anyT4}: {6, ParityEven},
	{4, 4, 2}:     {7, ParityEven},
	{3, 3, 3}:     {8, ParityEven},
	{4, 2, anyT4}: {9, ParityEven},
}

// ambiguousPairs lists (t1, t2) pairs that need t4 to pick a digit.
var ambiguousPairs = map[[2]int]bool{
	{3, 4}: true,
	{4, 3}: true,
	{4, 4}: true,
	{3, 3}: true,
}

// DecodeDigit looks up one normalized unit. Unknown units yield an undecodable digit.
func DecodeDigit(t TVal) Digit {
	key := symbolKey{t.T1, t.T2, anyT4}
	if ambiguousPairs[[2]int{t.T1, t.T2}] {
		key.t4 = t.T4
	}
	if d, ok := symbolTable[key]; ok {
		return d
	}
	return Digit{Value: Undecodable, Parity: ParityNone}
}

// DecodeDigits decodes each unit in order.
func DecodeDigits(units [digitsPerSymbol]TVal) []Digit {
	out := make([]Digit, len(units))
	for i, t := range units {
		out[i] = DecodeDigit(t)
	}
	return out
}
