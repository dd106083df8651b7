// file: internals/features/school/enrollments/dto/enrollment_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	promiseDTO "sekolahku_backend/internals/features/finance/promises/dto"
	"sekolahku_backend/internals/features/school/enrollments/model"
)

type CreateEnrollmentRequest struct {
	EnrollmentStudentID uuid.UUID `json:"enrollment_student_id" validate:"required"`
	EnrollmentClassID   uuid.UUID `json:"enrollment_class_id" validate:"required"`
	EnrollmentPeriod    string    `json:"enrollment_period" validate:"required,min=4,max=32"`

	// Optional payment promise, required for the staff-tier override when the
	// student has blocking debt.
	Promise *promiseDTO.CreatePromiseRequest `json:"promise,omitempty"`
}

type EnrollmentResponse struct {
	EnrollmentID        uuid.UUID `json:"enrollment_id"`
	EnrollmentStudentID uuid.UUID `json:"enrollment_student_id"`
	EnrollmentClassID   uuid.UUID `json:"enrollment_class_id"`
	EnrollmentPeriod    string    `json:"enrollment_period"`
	EnrollmentStatus    string    `json:"enrollment_status"`
	EnrollmentNote      *string   `json:"enrollment_note,omitempty"`
	EnrollmentCreatedAt time.Time `json:"enrollment_created_at"`

	Promise *promiseDTO.PromiseResponse `json:"promise,omitempty"`
}

func FromEnrollmentModel(e *model.EnrollmentModel) *EnrollmentResponse {
	return &EnrollmentResponse{
		EnrollmentID:        e.EnrollmentID,
		EnrollmentStudentID: e.EnrollmentStudentID,
		EnrollmentClassID:   e.EnrollmentClassID,
		EnrollmentPeriod:    e.EnrollmentPeriod,
		EnrollmentStatus:    e.EnrollmentStatus,
		EnrollmentNote:      e.EnrollmentNote,
		EnrollmentCreatedAt: e.EnrollmentCreatedAt,
	}
}
