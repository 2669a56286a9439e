package campaign

import "errors"

// ErrInvalidTransition is returned when a status change would move a
// campaign backward in its lifecycle. Campaigns only ever advance:
// draft → scheduled → sending → sent.
var ErrInvalidTransition = errors.New("invalid campaign status transition")
