package dentist

import (
	"errors"
	"fmt"
	"time"

	"dencare/models"

	"github.com/google/uuid"
)

// ErrNotFound signals an unknown dentist id.
var ErrNotFound = errors.New("dentist not found")

// GetAll lists the dentist roster.
func (s *DefaultDentistService) GetAll() ([]models.Dentist, error) {
	return s.Repo.GetAll()
}

// GetByID fetches a dentist by id.
func (s *DefaultDentistService) GetByID(id string) (*models.Dentist, error) {
	d, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}
	return d, nil
}

// Create adds a dentist to the roster.
func (s *DefaultDentistService) Create(d *models.Dentist) (*models.Dentist, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("please add a name")
	}
	if len(d.Name) > 50 {
		return nil, fmt.Errorf("name can not be more than 50 characters")
	}
	if d.YearsOfExperience < 0 {
		return nil, fmt.Errorf("years of experience cannot be negative")
	}
	if d.Area == "" {
		return nil, fmt.Errorf("please add an area of expertise")
	}
	if d.Calendar != nil {
		if err := validateCalendar(d.Calendar); err != nil {
			return nil, err
		}
	}

	d.ID = uuid.New().String()
	if err := s.Repo.Create(d); err != nil {
		return nil, err
	}
	return d, nil
}

// Update replaces a dentist's profile fields, keeping the calendar.
func (s *DefaultDentistService) Update(id string, in *models.Dentist) (*models.Dentist, error) {
	existing, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		existing.Name = in.Name
	}
	if in.Area != "" {
		existing.Area = in.Area
	}
	if in.YearsOfExperience != 0 {
		if in.YearsOfExperience < 0 {
			return nil, fmt.Errorf("years of experience cannot be negative")
		}
		existing.YearsOfExperience = in.YearsOfExperience
	}

	if err := s.Repo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes a dentist from the roster.
func (s *DefaultDentistService) Delete(id string) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}

// SetCalendar validates and replaces a dentist's slot calendar.
// Replacing the calendar resets booking state; it is an admin setup
// operation, not a booking path.
func (s *DefaultDentistService) SetCalendar(id string, calendar []models.DateSlots) (*models.Dentist, error) {
	if err := validateCalendar(calendar); err != nil {
		return nil, err
	}
	if _, err := s.GetByID(id); err != nil {
		return nil, err
	}
	if err := s.Repo.SetCalendar(id, calendar); err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func validateCalendar(calendar []models.DateSlots) error {
	seenDates := make(map[string]bool, len(calendar))
	for _, ds := range calendar {
		if _, err := time.Parse(models.DateFormat, ds.Date); err != nil {
			return fmt.Errorf("invalid date %q: want %s", ds.Date, models.DateFormat)
		}
		if seenDates[ds.Date] {
			return fmt.Errorf("duplicate date %q in calendar", ds.Date)
		}
		seenDates[ds.Date] = true

		seenLabels := make(map[string]bool, len(ds.Slots))
		for _, slot := range ds.Slots {
			if !models.IsValidTimeLabel(slot.Time) {
				return fmt.Errorf("invalid time label %q on %s", slot.Time, ds.Date)
			}
			if seenLabels[slot.Time] {
				return fmt.Errorf("duplicate time label %q on %s", slot.Time, ds.Date)
			}
			seenLabels[slot.Time] = true
		}
	}
	return nil
}
