package crm

import "fmt"

// NormalizePhone reformats US phone numbers into a canonical display form:
//
//	10 digits             → (NNN) NNN-NNNN
//	11 digits leading "1" → +1 (NNN) NNN-NNNN
//
// Any other input passes through unchanged. Normalization happens before
// change diffing in the update tools, so a cosmetic-only difference still
// counts as a change when it alters the stored format.
func NormalizePhone(raw string) string {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}

	switch {
	case len(digits) == 10:
		return fmt.Sprintf("(%s) %s-%s", digits[0:3], digits[3:6], digits[6:10])
	case len(digits) == 11 && digits[0] == '1':
		return fmt.Sprintf("+1 (%s) %s-%s", digits[1:4], digits[4:7], digits[7:11])
	default:
		return raw
	}
}
