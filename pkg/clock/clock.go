package clock

import "time"

// Clock abstracts time.Now so past-start validation can be tested against a
// fixed instant.
type Clock interface {
	Now() time.Time
}

type Real struct{}

func (Real) Now() time.Time { return time.Now() }
