package demo

import "errors"

// ErrDeliveryTimeout is returned when a published message is not observed by
// the subscriber in time
var ErrDeliveryTimeout = errors.New("published message was not delivered in time")
