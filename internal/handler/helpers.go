package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"rutaventas/internal/apierror"
	"rutaventas/internal/dto"
	"rutaventas/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// gt=0 or lte=100 work on it.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report fields by their JSON name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
}

// bindAndValidate binds the JSON body and runs validator tags. It writes the
// error response itself; callers return immediately when it reports false.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

// bindItems is bindAndValidate for bodies carrying line items under key. A
// cantidad that is not a number answers InvalidItem instead of a bare 400.
func bindItems(c *gin.Context, req interface{}, key string) bool {
	if err := c.ShouldBindBodyWith(req, binding.JSON); err != nil {
		if n := cantidadInvalida(c, key); n > 0 {
			fail(c, apierror.InvalidItem(fmt.Sprintf("cantidad invalida en el item %d", n)))
			return false
		}
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

// cantidadInvalida returns the 1-based position of the first item whose
// cantidad does not decode as a decimal, or 0.
func cantidadInvalida(c *gin.Context, key string) int {
	body, _ := c.Get(gin.BodyBytesKey)
	raw, _ := body.([]byte)
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return 0
	}
	var items []struct {
		Cantidad json.RawMessage `json:"cantidad"`
	}
	if err := json.Unmarshal(doc[key], &items); err != nil {
		return 0
	}
	for i, it := range items {
		var d decimal.Decimal
		if len(it.Cantidad) > 0 && d.UnmarshalJSON(it.Cantidad) != nil {
			return i + 1
		}
	}
	return 0
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

func runValidation(c *gin.Context, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
	return false
}

// paramID parses a UUID path parameter, answering 400 when malformed.
func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(name+" invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// fail answers a domain error with its own status and hands anything else to
// the ErrorHandler middleware.
func fail(c *gin.Context, err error) {
	if de, ok := apierror.As(err); ok {
		c.JSON(de.Status, de.Envelope())
		return
	}
	_ = c.Error(err)
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, dto.OKResponse{OK: true, Data: data})
}

// principal returns the authenticated caller. Routes using it sit behind
// JWTAuth, so a missing principal is a wiring bug and answers 401.
func principal(c *gin.Context) (*middleware.Principal, bool) {
	p := middleware.GetPrincipal(c)
	if p == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("No autenticado"))
		return nil, false
	}
	return p, true
}
