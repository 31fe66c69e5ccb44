package employee

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"k8s.io/apimachinery/pkg/util/sets"
)

// DateLayout is the only accepted date of birth format (YYYY/MM/DD)
const DateLayout = "2006/01/02"

// FieldCount is the number of fields in one employee record
const FieldCount = 4

// Date is a calendar date without time of day or location
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses a YYYY/MM/DD date, rejecting days that do not exist in the month
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// YearDay returns the day of the year, in the range [1,365] for non-leap years and [1,366] in leap years
func (d Date) YearDay() int {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).YearDay()
}

// IsLeapYear reports whether the date's year is a leap year
func (d Date) IsLeapYear() bool {
	return isLeap(d.Year)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, int(d.Month), d.Day)
}

// Compare orders dates chronologically
func (d Date) Compare(other Date) int {
	return cmp.Or(
		cmp.Compare(d.Year, other.Year),
		cmp.Compare(d.Month, other.Month),
		cmp.Compare(d.Day, other.Day),
	)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// Employee is one person from the users file. Two employees are the same
// entity only when all fields are equal, so Employee is usable as a set key.
type Employee struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth Date   `json:"date_of_birth"`
	Email       string `json:"email"`
}

// Compare orders employees by last name, first name, date of birth and email
func (e Employee) Compare(other Employee) int {
	return cmp.Or(
		cmp.Compare(e.LastName, other.LastName),
		cmp.Compare(e.FirstName, other.FirstName),
		e.DateOfBirth.Compare(other.DateOfBirth),
		cmp.Compare(e.Email, other.Email),
	)
}

func (e Employee) String() string {
	return fmt.Sprintf("%s %s <%s>", e.FirstName, e.LastName, e.Email)
}

// Sorted returns the members of employees in their natural order
func Sorted(employees sets.Set[Employee]) []Employee {
	result := employees.UnsortedList()
	slices.SortFunc(result, Employee.Compare)
	return result
}
