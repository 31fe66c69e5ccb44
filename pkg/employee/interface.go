package employee

import (
	"time"

	"k8s.io/apimachinery/pkg/util/sets"
)

// CollectionInterface defines the employee lookups used by the birthday sender
type CollectionInterface interface {
	// AllEmployees returns every employee known to the collection
	AllEmployees() (sets.Set[Employee], error)
	// FindBornToday returns the employees whose birthday is celebrated on today
	FindBornToday(today time.Time) (sets.Set[Employee], error)
}
