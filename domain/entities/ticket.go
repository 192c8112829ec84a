package entities

import "time"

// SequenceDigits is the fixed length of every ticket sequence.
const SequenceDigits = 5

// Ticket represents one held ticket instance. The same depositor may hold the
// same sequence more than once; each instance is an independent ticket.
type Ticket struct {
	ID        int64     `db:"id"`
	Sequence  string    `db:"sequence"`
	Address   string    `db:"address"`
	CreatedAt time.Time `db:"created_at"`
}

// SequenceHolders pairs a registered sequence with the ordered list of
// addresses currently holding it (one entry per ticket instance).
type SequenceHolders struct {
	Sequence  string
	Addresses []string
}

// IsValidSequence reports whether s is a well-formed ticket sequence:
// exactly SequenceDigits characters, all decimal digits.
func IsValidSequence(s string) bool {
	if len(s) != SequenceDigits {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CountSequenceMatches returns the number of digit positions at which a and b
// are equal. Both arguments must be valid sequences of the same length.
func CountSequenceMatches(a, b string) int {
	count := 0
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] == b[i] {
			count++
		}
	}
	return count
}
