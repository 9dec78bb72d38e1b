package handler

import (
	"errors"
	"net/http"
	"reflect"

	"siwarapos/internal/apierror"
	"siwarapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps service-layer error types onto HTTP statuses:
// validation → 422, state machine and race conflicts → 409,
// blocked deletes → 409, lookup misses → 404, everything else → 500
// via the error-handler middleware.
func respondError(c *gin.Context, err error) {
	var (
		ve  *service.ValidationError
		ite *service.InvalidTransitionError
		ce  *service.ConflictError
		re  *service.ReferentialError
		nf  *service.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(ve.Msg))
	case errors.As(err, &ite):
		c.JSON(http.StatusConflict, apierror.New(ite.Error()))
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, apierror.New(ce.Msg))
	case errors.As(err, &re):
		c.JSON(http.StatusConflict, apierror.New(re.Msg))
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, apierror.New(nf.Error()))
	default:
		_ = c.Error(err)
	}
}
