package taxisrs

import (
	"github.com/gin-gonic/gin"
	"github.com/momeni/taxiweb/pkg/adapter/restful/gin/serdser"
)

type taxiIDReq struct {
	TaxiID string `uri:"tid" binding:"required,max=64"`
}

type taxiReq struct {
	LicensePlate string `json:"licensePlate" binding:"required,max=32"`
	Active       *bool  `json:"active"`
}

// active defaults to true, so new taxis are bookable unless stated.
func (req *taxiReq) active() bool {
	return req.Active == nil || *req.Active
}

type editReq struct {
	LicensePlate string `json:"licensePlate" binding:"required,max=32"`
	Active       *bool  `json:"active" binding:"required"`
}

type activeReq struct {
	Active *bool `json:"active" binding:"required"`
}

func (rs *resource) DserTaxiID(c *gin.Context) string {
	req := &taxiIDReq{}
	if !serdser.BindURI(c, req) {
		return ""
	}
	return req.TaxiID
}
