package rng

import (
	"fmt"
	"unicode/utf16"
)

// Hash32 is the rolling multiply-add hash (h = h*31 + c) over the UTF-16 code
// units of s, wrapped to 32 bits and made non-negative.
func Hash32(s string) uint32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}
	if h < 0 {
		return uint32(-int64(h))
	}
	return uint32(h)
}

// HashHex renders Hash32 as at least 8 lowercase hex digits.
func HashHex(s string) string {
	return fmt.Sprintf("%08x", Hash32(s))
}
