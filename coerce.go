package srvsentry

import "errors"

// queryError is implemented by errors that carry the database query that failed.
type queryError interface {
	QueryBody() string
	QueryArgs() []interface{}
}

func asQueryError(err error) (queryError, bool) {
	var q queryError
	if errors.As(err, &q) {
		return q, true
	}
	return nil, false
}
