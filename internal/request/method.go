package request

type Method int

const (
	MethodUnknown Method = iota
	MethodGet
	MethodPut
	MethodPost
	MethodDelete
)

var methodNames = map[string]Method{
	"GET":    MethodGet,
	"PUT":    MethodPut,
	"POST":   MethodPost,
	"DELETE": MethodDelete,
}

// ParseMethod maps a request-line token to a Method. Matching is exact and
// case-sensitive; anything else is MethodUnknown.
func ParseMethod(s string) Method {
	if m, ok := methodNames[s]; ok {
		return m
	}
	return MethodUnknown
}

func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodPut:
		return "PUT"
	case MethodPost:
		return "POST"
	case MethodDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}
