package billing

import "time"

// CreditTerm is a named net-N payment window
type CreditTerm string

const (
	CreditTermNet7  CreditTerm = "net_7"
	CreditTermNet15 CreditTerm = "net_15"
	CreditTermNet30 CreditTerm = "net_30"
	CreditTermNet45 CreditTerm = "net_45"
	CreditTermNet60 CreditTerm = "net_60"
	CreditTermNet90 CreditTerm = "net_90"
)

var creditTermDays = map[CreditTerm]int{
	CreditTermNet7:  7,
	CreditTermNet15: 15,
	CreditTermNet30: 30,
	CreditTermNet45: 45,
	CreditTermNet60: 60,
	CreditTermNet90: 90,
}

// IsValid checks if the term is one of the supported net terms
func (t CreditTerm) IsValid() bool {
	_, ok := creditTermDays[t]
	return ok
}

// Days returns the number of days in the term, or 0 if unknown
func (t CreditTerm) Days() int {
	return creditTermDays[t]
}

// DueDate returns the calendar date N days after ref, at midnight in ref's location
func (t CreditTerm) DueDate(ref time.Time) time.Time {
	return DateOf(ref).AddDate(0, 0, t.Days())
}

// DateOf truncates t to midnight in its own location
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
