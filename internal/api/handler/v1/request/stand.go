package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateStandRequest struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Location       string `json:"location"`
	OwnerID        int64  `json:"owner_id"`
	PointsPerVisit int    `json:"points_per_visit"`
}

func (req *CreateStandRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ID, validation.Length(0, 50)),
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.Location, validation.Length(0, 100)),
		validation.Field(&req.OwnerID, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.PointsPerVisit, validation.Min(0)),
	)
}
