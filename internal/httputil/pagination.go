package httputil

import (
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"

	customValidation "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/validation"
)

// Order listing window bounds.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

// pageQuery holds the raw listing parameters. Clients send either offset/limit or the
// zero-based page/size pair; page/size wins when page is present.
type pageQuery struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Page   int `json:"page"`
	Size   int `json:"size"`
}

func (q pageQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Offset, validation.Min(0)),
		validation.Field(&q.Limit, validation.Required, validation.Min(1), validation.Max(MaxPageLimit)),
		validation.Field(&q.Page, validation.Min(0)),
		validation.Field(&q.Size, validation.Required, validation.Min(1), validation.Max(MaxPageLimit)),
	)
}

// ParsePagination returns the offset and limit of an order listing request. Malformed or
// out of range values are reported as ErrInvalidInput.
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	q := pageQuery{Limit: DefaultPageLimit, Size: DefaultPageLimit}

	fields := []struct {
		name string
		dst  *int
	}{
		{"offset", &q.Offset},
		{"limit", &q.Limit},
		{"page", &q.Page},
		{"size", &q.Size},
	}
	for _, f := range fields {
		raw, ok := c.GetQuery(f.name)
		if !ok {
			continue
		}
		v, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return 0, 0, customValidation.WrapValidationError(
				validation.Errors{f.name: validation.NewError("validation_is_int", "must be an integer")},
			)
		}
		*f.dst = v
	}

	if err := q.Validate(); err != nil {
		return 0, 0, customValidation.WrapValidationError(err)
	}

	if _, ok := c.GetQuery("page"); ok {
		return q.Page * q.Size, q.Size, nil
	}
	return q.Offset, q.Limit, nil
}
