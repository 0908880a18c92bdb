// Package cpf validates Brazilian CPF documents, including the two checksum
// digits.
package cpf

import "strings"

// Strip removes every non-digit character from a CPF string
func Strip(cpf string) string {
	var b strings.Builder
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Valid reports whether the given CPF has 11 digits and both checksum digits
// match. Formatting characters are ignored. A CPF made of a single repeated
// digit passes the checksum but is not a valid document.
func Valid(cpf string) bool {
	digits := Strip(cpf)
	if len(digits) != 11 {
		return false
	}

	allSame := true
	for i := 1; i < 11; i++ {
		if digits[i] != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	return checkDigit(digits, 9) && checkDigit(digits, 10)
}

// checkDigit verifies the checksum digit at position pos (9 or 10) against
// the weighted sum of the preceding digits.
func checkDigit(digits string, pos int) bool {
	sum := 0
	for i := 0; i < pos; i++ {
		sum += int(digits[i]-'0') * (pos + 1 - i)
	}
	remainder := (sum * 10) % 11
	if remainder == 10 {
		remainder = 0
	}
	return remainder == int(digits[pos]-'0')
}
