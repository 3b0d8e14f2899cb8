package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type fieldErr struct{ field string }

func (e *fieldErr) Error() string { return e.field + " missing" }

var errGone = errors.New("gone")

func TestTranslate_FirstMatchWins(t *testing.T) {
	mappers := []Mapper{
		As(func(e *fieldErr) ProblemDetail { return NewMissingFieldProblem(e.field) }),
		Is(errGone, ErrNotFound),
	}

	problem, ok := Translate(fmt.Errorf("update: %w", errGone), mappers...)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, problem.Status)
	require.Equal(t, "update: gone", problem.Detail)

	problem, ok = Translate(fmt.Errorf("wrap: %w", &fieldErr{field: "Phone"}), mappers...)
	require.True(t, ok)
	require.Equal(t, "Phone is required", problem.Detail)
	require.Equal(t, map[string]string{"Phone": "is required"}, problem.Extensions["fields"])

	_, ok = Translate(errors.New("boom"), mappers...)
	require.False(t, ok)
}

func TestWithExtension_DoesNotMutateTemplate(t *testing.T) {
	_ = ErrValidation.WithExtension("fields", map[string]string{"a": "b"})
	require.Nil(t, ErrValidation.Extensions)
}

func TestRespond_WritesProblemJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/s-1/orders/o-1", nil)

	Respond(c, ErrNotFound.WithDetail("order not found"))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, TypeNotFound, body.Type)
	require.Equal(t, "/s-1/orders/o-1", body.Instance)
	require.Empty(t, body.Extensions)
}
