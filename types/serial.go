package types

// ------------------------
// Serial link parameters
// ------------------------

type Parity uint8

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

func (p Parity) String() string {
	switch p {
	case ParityEven:
		return "even"
	case ParityOdd:
		return "odd"
	default:
		return "none"
	}
}

func (p Parity) MarshalJSON() ([]byte, error) { return []byte(`"` + p.String() + `"`), nil }

// SerialConfig is one concrete link configuration. Value type; compare with ==.
type SerialConfig struct {
	BaudRate uint32 `json:"baud_rate"`
	DataBits uint8  `json:"data_bits"` // 7 or 8
	Parity   Parity `json:"parity"`
	StopBits uint8  `json:"stop_bits"` // 1 or 2
}

// String renders the conventional short form, e.g. "115200 8N1".
func (c SerialConfig) String() string {
	var par byte
	switch c.Parity {
	case ParityEven:
		par = 'E'
	case ParityOdd:
		par = 'O'
	default:
		par = 'N'
	}
	b := make([]byte, 0, 16)
	b = appendUint(b, uint64(c.BaudRate))
	b = append(b, ' ', '0'+c.DataBits, par, '0'+c.StopBits)
	return string(b)
}

func appendUint(b []byte, n uint64) []byte {
	if n == 0 {
		return append(b, '0')
	}
	var tmp [20]byte
	i := len(tmp)
	for n > 0 {
		i--
		tmp[i] = byte('0' + n%10)
		n /= 10
	}
	return append(b, tmp[i:]...)
}

// FrameParams is the non-baud part of a configuration.
type FrameParams struct {
	DataBits uint8
	Parity   Parity
	StopBits uint8
}

// With combines frame parameters with a baud rate.
func (f FrameParams) With(baud uint32) SerialConfig {
	return SerialConfig{BaudRate: baud, DataBits: f.DataBits, Parity: f.Parity, StopBits: f.StopBits}
}

// ------------------------
// Fixed sweep tables
// ------------------------

// StandardBauds lists the conventional rates, ascending. Detection results
// are always drawn from this table.
var StandardBauds = [...]uint32{9600, 19200, 38400, 57600, 115200, 230400, 460800, 921600}

// FrameCombos enumerates the 12 frame-parameter tuples in the fixed sweep
// order: data bits outermost, then parity, then stop bits.
var FrameCombos = [...]FrameParams{
	{7, ParityNone, 1}, {7, ParityNone, 2},
	{7, ParityEven, 1}, {7, ParityEven, 2},
	{7, ParityOdd, 1}, {7, ParityOdd, 2},
	{8, ParityNone, 1}, {8, ParityNone, 2},
	{8, ParityEven, 1}, {8, ParityEven, 2},
	{8, ParityOdd, 1}, {8, ParityOdd, 2},
}
