package utils

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

// HandleValidationErrors renders ReadJSON failures: structured field errors
// when the app validator rejected the payload, a generic 400 otherwise.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]iris.Map, 0, len(errs))
		for _, e := range errs {
			fields = append(fields, iris.Map{"field": e.Field(), "rule": e.Tag()})
		}
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "validation_error", "fields": fields})
		return
	}
	ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "invalid_payload", "message": err.Error()})
}

func CreateNotFound(ctx iris.Context) {
	JSONError(ctx, http.StatusNotFound, "not_found", "resource not found")
}

func CreateForbidden(ctx iris.Context) {
	JSONError(ctx, http.StatusForbidden, "forbidden", "not allowed")
}

func CreateInternalServerError(ctx iris.Context) {
	JSONError(ctx, http.StatusInternalServerError, "internal_error", "an internal error occurred")
}
