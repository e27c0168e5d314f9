package driversrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/taxiweb/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/taxiweb/pkg/core/model"
	"github.com/momeni/taxiweb/pkg/core/usecase/driversuc"
)

type uidReq struct {
	UID string `uri:"uid" binding:"required,max=128"`
}

type listReq struct {
	Role string `form:"role" binding:"omitempty,oneof=admin driver"`
}

type rawCreateReq struct {
	UID        string `json:"uid" binding:"required,max=128"`
	Email      string `json:"email" binding:"required,email"`
	FirstName  string `json:"firstName" binding:"required,max=64"`
	LastName   string `json:"lastName" binding:"required,max=64"`
	Employment string `json:"employment" binding:"required,oneof=full-time temporary other"`
}

type rawEditReq struct {
	FirstName  string `json:"firstName" binding:"required,max=64"`
	LastName   string `json:"lastName" binding:"required,max=64"`
	Employment string `json:"employment" binding:"omitempty,oneof=full-time temporary other"`
}

type editReq struct {
	FirstName  string
	LastName   string
	Employment model.EmploymentCategory
}

func (rs *resource) DserUID(c *gin.Context) string {
	req := &uidReq{}
	if !serdser.BindURI(c, req) {
		return ""
	}
	return req.UID
}

func employment(c *gin.Context, e string) (model.EmploymentCategory, bool) {
	ec, err := model.ParseEmployment(e)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"employment": []string{err.Error()},
		})
		return model.EmploymentUnset, false
	}
	return ec, true
}

func (rs *resource) DserCreateReq(c *gin.Context) *driversuc.NewProfile {
	req := &rawCreateReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return nil
	}
	ec, ok := employment(c, req.Employment)
	if !ok {
		return nil
	}
	return &driversuc.NewProfile{
		UID:        req.UID,
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Employment: ec,
	}
}

func (rs *resource) DserEditReq(c *gin.Context) *editReq {
	req := &rawEditReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return nil
	}
	ec, ok := employment(c, req.Employment)
	if !ok {
		return nil
	}
	return &editReq{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Employment: ec,
	}
}
