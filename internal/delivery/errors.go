package delivery

import (
	"fmt"

	"github.com/amishk599/jobcast/internal/model"
)

// DeliveryError reports which chunk of which job could not be delivered.
// It matches model.ErrDelivery and the underlying cause with errors.Is.
type DeliveryError struct {
	Dest     string
	JobTitle string
	Chunk    int
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver %q chunk %d to %s: %v", e.JobTitle, e.Chunk, e.Dest, e.Err)
}

func (e *DeliveryError) Unwrap() []error {
	return []error{model.ErrDelivery, e.Err}
}
