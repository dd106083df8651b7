// file: internals/features/finance/tariffs/model/tariff_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
	Tariff = tenant-defined chargeable item. Payments snapshot amount/currency
	from here at creation time and never recompute them.
*/

type TariffModel struct {
	TariffID       uuid.UUID `json:"tariff_id" gorm:"column:tariff_id;type:uuid;primaryKey"`
	TariffSchoolID uuid.UUID `json:"tariff_school_id" gorm:"column:tariff_school_id;type:uuid;not null;index:idx_tariffs_school"`

	TariffName     string `json:"tariff_name" gorm:"column:tariff_name;type:varchar(120);not null"`
	TariffAmount   int    `json:"tariff_amount" gorm:"column:tariff_amount;not null;check:tariff_amount >= 0"`
	TariffCurrency string `json:"tariff_currency" gorm:"column:tariff_currency;type:varchar(8);not null;default:IDR"`
	TariffIsActive bool   `json:"tariff_is_active" gorm:"column:tariff_is_active;not null;default:true"`

	TariffCreatedAt time.Time      `json:"tariff_created_at" gorm:"column:tariff_created_at;autoCreateTime"`
	TariffUpdatedAt time.Time      `json:"tariff_updated_at" gorm:"column:tariff_updated_at;autoUpdateTime"`
	TariffDeletedAt gorm.DeletedAt `json:"tariff_deleted_at,omitempty" gorm:"column:tariff_deleted_at;index"`
}

func (TariffModel) TableName() string { return "tariffs" }

func (t *TariffModel) BeforeCreate(tx *gorm.DB) error {
	if t.TariffID == uuid.Nil {
		t.TariffID = uuid.New()
	}
	return nil
}
