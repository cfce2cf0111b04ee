package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type SetRoleRequest struct {
	Role string `json:"role"`
}

func (req *SetRoleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Role, validation.Required, validation.In("guest", "standist", "hr", "admin")),
	)
}

type SetBlockedRequest struct {
	Blocked *bool `json:"blocked"`
}

func (req *SetBlockedRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Blocked, validation.NotNil),
	)
}
