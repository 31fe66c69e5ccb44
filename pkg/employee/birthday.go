package employee

import "time"

// IsBirthday reports whether someone born on birth celebrates on today.
//
// Month and day are compared, except when birth falls in a leap year and today
// does not. Then the day of the year is compared with today shifted by one,
// which keeps birthdays from March onwards on their calendar day but moves
// January and February birthdays one day earlier: Feb 29 matches Feb 28.
// Feb 29 birthdays are also observed on Mar 1 of non-leap years.
func IsBirthday(birth, today Date) bool {
	if birth.IsLeapYear() && !today.IsLeapYear() {
		if isLeapDay(birth) && today.Month == time.March && today.Day == 1 {
			return true
		}
		return birth.YearDay() == today.YearDay()+1
	}
	return birth.Month == today.Month && birth.Day == today.Day
}

func isLeapDay(d Date) bool {
	return d.Month == time.February && d.Day == 29
}
