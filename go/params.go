package storeserver

import (
	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	apierrors "github.com/Apurer/store-admin-api/internal/shared/errors"
)

// bindPathParam decodes a simple-style path parameter.
func bindPathParam(c *gin.Context, name string) (string, bool) {
	var value string
	if err := runtime.BindStyledParameterWithLocation("simple", false, name, runtime.ParamLocationPath, c.Param(name), &value); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return "", false
	}
	return value, true
}

// bindOptionalQuery decodes a form-style query parameter; absent values stay empty.
func bindOptionalQuery(c *gin.Context, name string) (string, bool) {
	var value string
	if err := runtime.BindQueryParameter("form", true, false, name, c.Request.URL.Query(), &value); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return "", false
	}
	return value, true
}
