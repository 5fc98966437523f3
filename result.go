package capital

// Result is the structured outcome handed to the surrounding application:
// errors never cross this boundary as anything else than a failed Result.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// OK wraps data in a successful result.
func OK(data any, message string) Result {
	return Result{Success: true, Message: message, Data: data}
}

// Failure turns err into a failed result.
func Failure(err error) Result {
	if err == nil {
		return Result{Success: false, Message: "unknown error"}
	}
	return Result{Success: false, Message: err.Error()}
}

// Do runs fn and converts its outcome into a Result.
func Do[T any](fn func() (T, error)) Result {
	v, err := fn()
	if err != nil {
		return Failure(err)
	}
	return OK(v, "")
}
