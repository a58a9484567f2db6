package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
)

// PathID binds a positive integer path parameter such as ":id".
func PathID(c *gin.Context, name string) (uint, error) {
	var id uint
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// QueryInt binds an optional integer query parameter, returning def when absent.
func QueryInt(c *gin.Context, name string, def int) (int, error) {
	var v *int
	if err := runtime.BindQueryParameter("form", true, false, name, c.Request.URL.Query(), &v); err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	if v == nil {
		return def, nil
	}
	return *v, nil
}

// QueryUint binds an optional positive integer query parameter. Absent yields nil.
func QueryUint(c *gin.Context, name string) (*uint, error) {
	var v *uint
	if err := runtime.BindQueryParameter("form", true, false, name, c.Request.URL.Query(), &v); err != nil {
		return nil, fmt.Errorf("invalid %s", name)
	}
	if v != nil && *v == 0 {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}
