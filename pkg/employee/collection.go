package employee

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/klog"

	"github.com/openshift/birthday-bot/pkg/source"
)

// Collection is the set of employees read from a record source. The source is
// read on first access and never again for the lifetime of the collection.
type Collection struct {
	source source.Source

	once      sync.Once
	employees sets.Set[Employee]
	failures  []*ParseError
	loadErr   error
}

// NewCollection creates a collection that loads lazily from src
func NewCollection(src source.Source) *Collection {
	return &Collection{source: src}
}

// NewFileCollection creates a collection backed by the file at path on fs.
// A blank path selects source.DefaultPath. The returned error wraps
// source.ErrSourceUnavailable when the file cannot be found.
func NewFileCollection(fs afero.Fs, path string) (*Collection, error) {
	src, err := source.NewFileSource(fs, path)
	if err != nil {
		return nil, err
	}
	return NewCollection(src), nil
}

// AllEmployees returns a copy of the employee set, loading it on the first call.
// Concurrent first callers wait for the single load to finish.
func (c *Collection) AllEmployees() (sets.Set[Employee], error) {
	c.once.Do(c.load)
	if c.loadErr != nil {
		return nil, c.loadErr
	}
	return c.employees.Clone(), nil
}

// FindBornToday returns the employees whose birthday is celebrated on today
func (c *Collection) FindBornToday(today time.Time) (sets.Set[Employee], error) {
	employees, err := c.AllEmployees()
	if err != nil {
		return nil, err
	}
	date := DateOf(today)
	result := sets.New[Employee]()
	for employee := range employees {
		if IsBirthday(employee.DateOfBirth, date) {
			result.Insert(employee)
		}
	}
	return result, nil
}

// Failures returns the records skipped because of an unparseable date of birth
func (c *Collection) Failures() []*ParseError {
	c.once.Do(c.load)
	result := make([]*ParseError, len(c.failures))
	copy(result, c.failures)
	return result
}

// load reads the source once, skipping the header line
func (c *Collection) load() {
	employees := sets.New[Employee]()

	reader, err := c.source.Open(context.Background())
	if err != nil {
		c.loadErr = fmt.Errorf("failed to load employees from %s: %w", c.source.Name(), err)
		return
	}
	defer reader.Close()

	buffered := bufio.NewReader(reader)
	lineNumber := 0
	for {
		line, readErr := buffered.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			c.loadErr = fmt.Errorf("failed to read employees from %s: %w", c.source.Name(), readErr)
			return
		}
		if line == "" && readErr != nil {
			break
		}
		lineNumber++
		if lineNumber > 1 {
			c.insert(employees, lineNumber, strings.TrimRight(line, "\r\n"))
		}
		if readErr != nil {
			break
		}
	}

	c.employees = employees
	klog.Infof("Loaded %d employees from %s (%d unparseable records)", employees.Len(), c.source.Name(), len(c.failures))
}

func (c *Collection) insert(employees sets.Set[Employee], lineNumber int, line string) {
	employee, err := ParseRecord(lineNumber, line)
	var parseErr *ParseError
	switch {
	case err == nil:
		employees.Insert(employee)
	case errors.As(err, &parseErr):
		klog.Errorf("Skipping record in %s: %v", c.source.Name(), parseErr)
		c.failures = append(c.failures, parseErr)
	default:
		klog.V(4).Infof("Skipping record at %s:%d: %v", c.source.Name(), lineNumber, err)
	}
}

// Close releases the record source when it holds resources, such as a storage client
func (c *Collection) Close() error {
	if closer, ok := c.source.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
