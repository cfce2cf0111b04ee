package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type CreateMerchRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	ImageURL      string `json:"image_url"`
	PointsCost    int    `json:"points_cost"`
	QuantityTotal int    `json:"quantity_total"`
}

func (req *CreateMerchRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.ImageURL, is.URL),
		validation.Field(&req.PointsCost, validation.Required, validation.Min(1)),
		validation.Field(&req.QuantityTotal, validation.Required, validation.Min(1)),
	)
}

// UpdateMerchRequest patches catalog metadata. Zero values leave the field
// unchanged; stock quantities are only ever moved by orders.
type UpdateMerchRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	PointsCost  int    `json:"points_cost"`
}

func (req *UpdateMerchRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Length(0, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.ImageURL, is.URL),
		validation.Field(&req.PointsCost, validation.Min(0)),
	)
}
