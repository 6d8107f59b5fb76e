package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

const DateLayout = "2006-01-02"

// Date is a calendar date stored in a DATE column and serialized as YYYY-MM-DD.
type Date struct {
	datatypes.Date
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{datatypes.Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("date must use the %s layout", DateLayout)
	}
	return Date{datatypes.Date(t)}, nil
}

func (d Date) Time() time.Time {
	return time.Time(d.Date)
}

func (d Date) String() string {
	return d.Time().Format(DateLayout)
}

// Before compares calendar days only.
func (d Date) Before(other Date) bool {
	return d.String() < other.String()
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string")
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
