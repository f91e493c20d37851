package types

// ResultKind discriminates a Result.
type ResultKind string

const (
	ResultKindOK    ResultKind = "ok"
	ResultKindError ResultKind = "error"
)

// ErrorReason says which stage of the pipeline failed.
type ErrorReason string

const (
	// ErrorReasonParse is a user-correctable timestamp problem.
	ErrorReasonParse ErrorReason = "parse"
	// ErrorReasonInference means the loaded artifacts rejected the vector.
	ErrorReasonInference ErrorReason = "inference"
)

// Result is the outcome of a prediction: either a value or a failure reason.
type Result struct {
	Kind    ResultKind  `json:"kind"`
	Value   float64     `json:"value"`
	Reason  ErrorReason `json:"reason,omitempty"`
	Message string      `json:"message,omitempty"`
}

// OK returns a successful Result.
func OK(value float64) Result {
	return Result{Kind: ResultKindOK, Value: value}
}

// Failure returns an error Result.
func Failure(reason ErrorReason, message string) Result {
	return Result{Kind: ResultKindError, Reason: reason, Message: message}
}

// IsOK reports whether the prediction succeeded.
func (r Result) IsOK() bool {
	return r.Kind == ResultKindOK
}
