package dentist

import (
	dentistRepo "dencare/database/repository/dentist"
	"dencare/models"
)

// DentistService manages the dentist roster and slot calendars.
type DentistService interface {
	GetAll() ([]models.Dentist, error)
	GetByID(id string) (*models.Dentist, error)
	Create(d *models.Dentist) (*models.Dentist, error)
	Update(id string, d *models.Dentist) (*models.Dentist, error)
	Delete(id string) error
	SetCalendar(id string, calendar []models.DateSlots) (*models.Dentist, error)
}

// DefaultDentistService implements DentistService over the dentist
// repository.
type DefaultDentistService struct {
	Repo dentistRepo.DentistRepository
}
