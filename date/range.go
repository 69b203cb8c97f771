package date

// Range is an inclusive range of dates.
type Range struct {
	From Date
	To   Date
}

// Contains reports whether d falls within the range, bounds included.
// A zero From means "since forever", a zero To means "until forever".
func (r Range) Contains(d Date) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}

// String formats the range as "from..to".
func (r Range) String() string { return r.From.String() + ".." + r.To.String() }
