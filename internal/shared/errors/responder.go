package errors

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// Respond writes the problem with its own status. Instance defaults to the request path and the
// active trace id, when there is one, is attached so clients can quote it in support requests.
func Respond(c *gin.Context, problem ProblemDetail) {
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		problem = problem.WithExtension("traceId", sc.TraceID().String())
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// Mapper translates a known error into a problem.
type Mapper func(err error) (ProblemDetail, bool)

// Translate returns the first mapper's answer; ok is false when nothing matched.
func Translate(err error, mappers ...Mapper) (ProblemDetail, bool) {
	for _, m := range mappers {
		if problem, ok := m(err); ok {
			return problem, true
		}
	}
	return ProblemDetail{}, false
}

// Is maps every error matching target onto template, carrying the error text as detail.
func Is(target error, template ProblemDetail) Mapper {
	return func(err error) (ProblemDetail, bool) {
		if !errors.Is(err, target) {
			return ProblemDetail{}, false
		}
		return template.WithDetail(err.Error()), true
	}
}

// As maps errors of type T through build.
func As[T error](build func(T) ProblemDetail) Mapper {
	return func(err error) (ProblemDetail, bool) {
		var target T
		if !errors.As(err, &target) {
			return ProblemDetail{}, false
		}
		return build(target), true
	}
}
