package response

import "strconv"

type statusKind uint8

// The zero statusKind is notFound, so the zero Status is a valid 404.
const (
	notFound statusKind = iota
	ok
	created
)

// Status is one of the fixed code/reason pairs the server can send. Its
// field is unexported, so StatusOK, StatusCreated and StatusNotFound are the
// only values that exist outside this package.
type Status struct {
	kind statusKind
}

var (
	StatusOK       = Status{kind: ok}
	StatusCreated  = Status{kind: created}
	StatusNotFound = Status{kind: notFound}
)

func (s Status) Code() int {
	switch s.kind {
	case ok:
		return 200
	case created:
		return 201
	default:
		return 404
	}
}

func (s Status) Reason() string {
	switch s.kind {
	case ok:
		return "OK"
	case created:
		return "Created"
	default:
		return "Not Found"
	}
}

func (s Status) String() string {
	return strconv.Itoa(s.Code()) + " " + s.Reason()
}
