package binary

import "unicode/utf16"

// ModifiedUTF8 encodes s the way class-file Utf8 entries store strings:
// NUL becomes the two bytes C0 80 and supplementary runes are written as
// a surrogate pair of three-byte sequences. Invalid UTF-8 in s is replaced
// with U+FFFD; callers reject such strings before writing.
func ModifiedUTF8(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r == 0:
			out = append(out, 0xC0, 0x80)
		case r < 0x80:
			out = append(out, byte(r))
		case r < 0x800:
			out = append(out, 0xC0|byte(r>>6), 0x80|byte(r&0x3F))
		case r < 0x10000:
			out = appendThree(out, r)
		default:
			hi, lo := utf16.EncodeRune(r)
			out = appendThree(out, hi)
			out = appendThree(out, lo)
		}
	}
	return out
}

func appendThree(out []byte, r rune) []byte {
	return append(out, 0xE0|byte(r>>12), 0x80|byte((r>>6)&0x3F), 0x80|byte(r&0x3F))
}
