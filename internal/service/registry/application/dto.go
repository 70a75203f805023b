// internal/service/registry/application/dto.go
package application

import (
	"reflect"

	"github.com/go-playground/validator/v10"

	"giftregistry/internal/service/registry/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// an ItemID counts as present unless it is absent, "" or 0
	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		id, ok := v.Interface().(domain.ItemID)
		if !ok || id.IsZero() {
			return nil
		}
		return id.String()
	}, domain.ItemID{})
}

// ReserveRequest is the guest-facing reservation input.
type ReserveRequest struct {
	ID                domain.ItemID `json:"id" validate:"required"`
	NomeConvidado     string        `json:"nomeConvidado" validate:"required"`
	EmailConvidado    string        `json:"emailConvidado" validate:"required"`
	TelefoneConvidado string        `json:"telefoneConvidado"`

	// Payload is the request body exactly as received; it is what the
	// webhook gets.
	Payload []byte `json:"-"`
}

// Validate checks required-field presence only.
func (r *ReserveRequest) Validate() error {
	return validate.Struct(r)
}

// MarkRequest marks an item directly, without the webhook.
type MarkRequest struct {
	ID domain.ItemID `json:"id" validate:"required"`
}

func (r *MarkRequest) Validate() error {
	return validate.Struct(r)
}
