package domain

import (
	"fmt"
	"time"
)

const DateLayout = "02.01.2006"

// day and month may be written without a leading zero
const dateInputLayout = "2.1.2006"

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidateDate accepts d.m.yyyy or dd.mm.yyyy with real calendar dates only.
func ValidateDate(value string) error {
	if _, err := time.Parse(dateInputLayout, value); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return nil
}
