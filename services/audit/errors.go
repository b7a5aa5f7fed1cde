package audit

import "errors"

// ErrUndoUnavailable is returned for changes that have no compensating action.
var ErrUndoUnavailable = errors.New("undo is not available for this change")
