package conv

const hexd = "0123456789abcdef"

// AppendHex appends the lowercase hex dump of src to dst and returns dst.
// No separators; two digits per byte. Used for the monitor's hex fallback.
func AppendHex(dst, src []byte) []byte {
	for _, b := range src {
		dst = append(dst, hexd[b>>4], hexd[b&0xF])
	}
	return dst
}
