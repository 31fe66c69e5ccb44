package employee

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedRecord means a record does not have exactly FieldCount non-blank fields
	ErrMalformedRecord = errors.New("malformed record")
	// ErrUnparseableDate means the date of birth is not a valid YYYY/MM/DD date
	ErrUnparseableDate = errors.New("unparseable date of birth")
)

// ParseError describes a record whose date of birth could not be parsed
type ParseError struct {
	LineNumber int
	Line       string
	Token      string
	Err        error
}

func (e *ParseError) Error() string {
	if e.LineNumber > 0 {
		return fmt.Sprintf("line %d: can't parse given line segment %q: %v", e.LineNumber, e.Token, e.Err)
	}
	return fmt.Sprintf("can't parse given line segment %q: %v", e.Token, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes every ParseError match ErrUnparseableDate
func (e *ParseError) Is(target error) bool {
	return target == ErrUnparseableDate
}

// SplitRecord splits a comma separated record, trimming every field and dropping blank ones
func SplitRecord(line string) []string {
	var fields []string
	for _, field := range strings.Split(line, ",") {
		field = strings.TrimSpace(field)
		if field != "" {
			fields = append(fields, field)
		}
	}
	return fields
}

// Parse maps first name, last name, date of birth and email to an Employee
func Parse(fields []string) (Employee, error) {
	if len(fields) != FieldCount {
		return Employee{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRecord, FieldCount, len(fields))
	}
	dateOfBirth, err := ParseDate(fields[2])
	if err != nil {
		return Employee{}, &ParseError{Token: fields[2], Err: err}
	}
	return Employee{
		FirstName:   fields[0],
		LastName:    fields[1],
		DateOfBirth: dateOfBirth,
		Email:       fields[3],
	}, nil
}

// ParseRecord parses one line of the users file. Date errors are annotated with the line.
func ParseRecord(lineNumber int, line string) (Employee, error) {
	employee, err := Parse(SplitRecord(line))
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		parseErr.LineNumber = lineNumber
		parseErr.Line = line
	}
	return employee, err
}
