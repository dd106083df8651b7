// file: internals/features/finance/tariffs/dto/tariff_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"sekolahku_backend/internals/features/finance/tariffs/model"
)

type CreateTariffRequest struct {
	TariffName     string `json:"tariff_name" validate:"required,min=2,max=120"`
	TariffAmount   int    `json:"tariff_amount" validate:"required,gte=0"`
	TariffCurrency string `json:"tariff_currency" validate:"required,len=3"`
}

// Amount/currency are not patchable: payments snapshot them, and silently
// changing a referenced tariff would rewrite history. Staff create a new
// tariff instead.
type UpdateTariffRequest struct {
	TariffName     *string `json:"tariff_name,omitempty" validate:"omitempty,min=2,max=120"`
	TariffIsActive *bool   `json:"tariff_is_active,omitempty"`
}

type TariffResponse struct {
	TariffID        uuid.UUID `json:"tariff_id"`
	TariffName      string    `json:"tariff_name"`
	TariffAmount    int       `json:"tariff_amount"`
	TariffCurrency  string    `json:"tariff_currency"`
	TariffIsActive  bool      `json:"tariff_is_active"`
	TariffCreatedAt time.Time `json:"tariff_created_at"`
}

func FromTariffModel(t *model.TariffModel) *TariffResponse {
	return &TariffResponse{
		TariffID:        t.TariffID,
		TariffName:      t.TariffName,
		TariffAmount:    t.TariffAmount,
		TariffCurrency:  t.TariffCurrency,
		TariffIsActive:  t.TariffIsActive,
		TariffCreatedAt: t.TariffCreatedAt,
	}
}
