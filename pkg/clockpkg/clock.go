// Package clockpkg provides the clock used to stamp ledger records.
//
// Recorded instants must carry a fixed, explicit UTC offset so that stored
// values are reproducible regardless of where the process runs.
package clockpkg

import "time"

// Clock returns the current instant in a fixed location.
type Clock interface {
	Now() time.Time
}

type zoned struct {
	loc *time.Location
}

// NewInLocation returns a Clock pinned to the named IANA time zone.
func NewInLocation(name string) (Clock, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, err
	}

	return zoned{loc: loc}, nil
}

func (z zoned) Now() time.Time {
	return time.Now().In(z.loc).Truncate(time.Second)
}

// Fixed is a Clock that always returns the same instant. Useful in tests.
type Fixed time.Time

// Now returns the fixed instant.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}
