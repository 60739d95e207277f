package memory

import "errors"

var errReadOnly = errors.New("cannot write inside a read-only transaction")
