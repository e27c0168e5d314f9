package shiftsrs

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/taxiweb/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/taxiweb/pkg/core/model"
	"github.com/momeni/taxiweb/pkg/core/repo"
	"github.com/momeni/taxiweb/pkg/core/usecase/shiftsuc"
)

type shiftIDReq struct {
	ShiftID string `uri:"sid" binding:"required,max=64"`
}

type rawBookReq struct {
	TaxiID   string   `json:"taxiId" binding:"required"`
	DriverID string   `json:"driverId" binding:"required"`
	Dates    []string `json:"dates" binding:"omitempty,max=62,unique,dive,datetime=2006-01-02"`
	RRule    string   `json:"rrule" binding:"omitempty,max=256"`
	From     string   `json:"from" binding:"omitempty,datetime=2006-01-02"`
	Start    string   `json:"start" binding:"required"`
	End      string   `json:"end" binding:"required"`
}

type rawUpdateReq struct {
	TaxiID   string `json:"taxiId" binding:"required"`
	DriverID string `json:"driverId" binding:"required"`
	Date     string `json:"date" binding:"required,datetime=2006-01-02"`
	Start    string `json:"start" binding:"required"`
	End      string `json:"end" binding:"required"`
}

type rawListReq struct {
	TaxiID   string `form:"taxiId"`
	DriverID string `form:"driverId"`
	From     string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To       string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

type rawAvailableReq struct {
	Resource  string `form:"resource" binding:"required,oneof=taxi driver"`
	ID        string `form:"id" binding:"required"`
	Date      string `form:"date" binding:"required,datetime=2006-01-02"`
	Start     string `form:"start" binding:"required"`
	End       string `form:"end" binding:"required"`
	ExcludeID string `form:"exclude"`
}

type availableReq struct {
	Resource  model.Resource
	ID        string
	Date      time.Time
	Start     string
	End       string
	ExcludeID string
}

func (rs *resource) DserShiftID(c *gin.Context) string {
	req := &shiftIDReq{}
	if !serdser.BindURI(c, req) {
		return ""
	}
	return req.ShiftID
}

func (rs *resource) DserBookReq(
	c *gin.Context, loc *time.Location,
) *shiftsuc.BookRequest {
	req := &rawBookReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return nil
	}
	var errs map[string][]string
	defer func() {
		if errs != nil {
			c.JSON(http.StatusBadRequest, errs)
		}
	}()
	val := &shiftsuc.BookRequest{
		TaxiID:   req.TaxiID,
		DriverID: req.DriverID,
		Start:    req.Start,
		End:      req.End,
	}
	explicit := len(req.Dates) > 0
	recurring := req.RRule != ""
	if !serdser.Assert(&errs, explicit != recurring, "dates",
		"Either dates or rrule is required, but not both.") {
		return nil
	}
	if explicit {
		if !serdser.Assert(&errs, req.From == "", "from",
			"The from date is only used with rrule.") {
			return nil
		}
		for _, d := range req.Dates {
			t, err := serdser.ParseDate(d, loc)
			if err != nil {
				serdser.AddErr(&errs, "dates", err.Error())
				return nil
			}
			val.Dates = append(val.Dates, t)
		}
		return val
	}
	if !serdser.Assert(&errs, req.From != "", "from",
		"The rrule requires a from date.") {
		return nil
	}
	from, err := serdser.ParseDate(req.From, loc)
	if err != nil {
		serdser.AddErr(&errs, "from", err.Error())
		return nil
	}
	val.Dates, err = ExpandDates(req.RRule, from)
	if err != nil {
		serdser.AddErr(&errs, "rrule", err.Error())
		return nil
	}
	return val
}

func (rs *resource) DserUpdateReq(
	c *gin.Context, loc *time.Location,
) *shiftsuc.UpdateRequest {
	req := &rawUpdateReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return nil
	}
	date, err := serdser.ParseDate(req.Date, loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"date": []string{err.Error()}})
		return nil
	}
	return &shiftsuc.UpdateRequest{
		TaxiID:   req.TaxiID,
		DriverID: req.DriverID,
		Date:     date,
		Start:    req.Start,
		End:      req.End,
	}
}

// DserListReq parses the listing filters. The to date is inclusive,
// so it is moved to the beginning of its next day.
func (rs *resource) DserListReq(
	c *gin.Context, loc *time.Location,
) *repo.ShiftsFilter {
	req := &rawListReq{}
	if !serdser.Bind(c, req, binding.Query) {
		return nil
	}
	var errs map[string][]string
	defer func() {
		if errs != nil {
			c.JSON(http.StatusBadRequest, errs)
		}
	}()
	f := &repo.ShiftsFilter{TaxiID: req.TaxiID, DriverID: req.DriverID}
	var err error
	if req.From != "" {
		f.From, err = serdser.ParseDate(req.From, loc)
		if !serdser.Assert(&errs, err == nil, "from", "Malformed from date.") {
			return nil
		}
	}
	if req.To != "" {
		f.To, err = serdser.ParseDate(req.To, loc)
		if !serdser.Assert(&errs, err == nil, "to", "Malformed to date.") {
			return nil
		}
		f.To = f.To.AddDate(0, 0, 1)
	}
	if !f.From.IsZero() && !f.To.IsZero() && !serdser.Assert(
		&errs, f.From.Before(f.To), "to", "The to date precedes from.",
	) {
		return nil
	}
	return f
}

func (rs *resource) DserAvailableReq(
	c *gin.Context, loc *time.Location,
) *availableReq {
	req := &rawAvailableReq{}
	if !serdser.Bind(c, req, binding.Query) {
		return nil
	}
	r, err := model.ParseResource(req.Resource)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"resource": []string{err.Error()}})
		return nil
	}
	date, err := serdser.ParseDate(req.Date, loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"date": []string{err.Error()}})
		return nil
	}
	return &availableReq{
		Resource:  r,
		ID:        req.ID,
		Date:      date,
		Start:     req.Start,
		End:       req.End,
		ExcludeID: req.ExcludeID,
	}
}
