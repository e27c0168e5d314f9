// Package serdser contains the serialization and deserialization
// helpers which are shared by the resources packages.
//
// Errors are rendered as JSON objects. Binding and validation errors
// map field names to lists of messages. Other errors have a "detail"
// message and, for the structured model errors, the fields which let
// a client show which resource, date, or identifier was at fault.
package serdser

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/momeni/taxiweb/pkg/core/cerr"
	"github.com/momeni/taxiweb/pkg/core/model"
)

// DateLayout is the format of calendar dates in requests and responses.
const DateLayout = time.DateOnly

func Bind(c *gin.Context, req any, b binding.Binding) bool {
	switch err := c.ShouldBindWith(req, b).(type) {
	case *validator.InvalidValidationError:
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": err.Error(),
		})
	case validator.ValidationErrors:
		var nameToErrs map[string][]string
		for _, ferr := range err {
			AddErr(&nameToErrs, ferr.Field(), ferr.Error())
		}
		c.JSON(http.StatusBadRequest, nameToErrs)
	default:
		if err == nil {
			return true
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
	}
	return false
}

// BindURI binds the path parameters of c into req.
func BindURI(c *gin.Context, req any) bool {
	if err := c.ShouldBindUri(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
		return false
	}
	return true
}

func AddErr(errs *map[string][]string, name string, msgs ...string) {
	if (*errs) == nil {
		*errs = make(map[string][]string)
	}
	if elist, ok := (*errs)[name]; !ok {
		(*errs)[name] = msgs
	} else {
		(*errs)[name] = append(elist, msgs...)
	}
}

func Assert(errs *map[string][]string, ok bool, name string, msgs ...string) bool {
	if ok {
		return true
	}
	AddErr(errs, name, msgs...)
	return false
}

// ParseDate parses a YYYY-MM-DD calendar date in loc location.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// ConflictBody is the structured part of a 409 response which is
// caused by an overlapping shift.
type ConflictBody struct {
	Resource        model.Resource `json:"resource"`
	ResourceID      string         `json:"resourceId"`
	ResourceName    string         `json:"resourceName"`
	Date            string         `json:"date"`
	Start           time.Time      `json:"start"`
	End             time.Time      `json:"end"`
	ExistingShiftID string         `json:"existingShiftId"`
}

// SerErr renders err as the JSON response of c.
func SerErr(c *gin.Context, err error) {
	c.JSON(ErrBody(err))
}

// ErrBody returns the HTTP status code and JSON body which describe
// err. Errors without a cerr status are reported as internal errors.
func ErrBody(err error) (int, gin.H) {
	var ce *cerr.Error
	if !errors.As(err, &ce) {
		return http.StatusInternalServerError, gin.H{
			"detail": err.Error(),
		}
	}
	var (
		ve  *model.ValidationError
		oe  *model.ConflictError
		coe *model.CollisionError
		iue *model.TaxiInUseError
		nfe *model.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		return ce.HTTPStatusCode, gin.H{ve.Field: []string{ve.Reason}}
	case errors.As(err, &oe):
		booked := oe.Booked
		if booked == nil {
			booked = []model.Shift{}
		}
		return ce.HTTPStatusCode, gin.H{
			"detail": oe.Error(),
			"conflict": ConflictBody{
				Resource:        oe.Resource,
				ResourceID:      oe.ResourceID,
				ResourceName:    oe.ResourceName,
				Date:            oe.Date.Format(DateLayout),
				Start:           oe.Interval.Start,
				End:             oe.Interval.End,
				ExistingShiftID: oe.ExistingShiftID,
			},
			"booked": booked,
		}
	case errors.As(err, &coe):
		return ce.HTTPStatusCode, gin.H{
			"detail":       coe.Error(),
			"taxiId":       coe.TaxiID,
			"licensePlate": coe.LicensePlate,
		}
	case errors.As(err, &iue):
		return ce.HTTPStatusCode, gin.H{
			"detail": iue.Error(),
			"taxiId": iue.TaxiID,
			"shifts": iue.Shifts,
		}
	case errors.As(err, &nfe):
		return ce.HTTPStatusCode, gin.H{
			"detail":     nfe.Error(),
			"collection": nfe.Collection,
			"id":         nfe.ID,
		}
	default:
		return ce.HTTPStatusCode, gin.H{
			"detail": ce.Err.Error(),
		}
	}
}
