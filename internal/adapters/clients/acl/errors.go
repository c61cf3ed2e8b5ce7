package acl

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jsamuelsen/pictoboard/internal/adapters/clients"
	"github.com/jsamuelsen/pictoboard/internal/domain"
)

// MapClientError translates client-level errors to domain errors.
// Every error here means no answer was received, so all of them are
// reported as unavailability with the cause kept in the reason.
func MapClientError(err error, serviceName, operation string) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("circuit breaker open during %s", operation))

	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("max retries exceeded during %s", operation))

	default:
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("%s failed: %v", operation, err))
	}
}

// IsSuccess reports whether an HTTP status is in the 2xx range.
func IsSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}
