// Package scoring rates generated responses.
package scoring

import "unicode/utf8"

// Func scores a single response.
type Func func(response string) int

// Length scores a response by its number of Unicode code points.
// Invalid UTF-8 bytes count as one code point each.
func Length(response string) int {
	return utf8.RuneCountInString(response)
}
