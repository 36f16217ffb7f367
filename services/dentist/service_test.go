package dentist

import (
	"strings"
	"testing"

	"dencare/models"
)

// mockDentistRepo implements the repository with function fields, so
// each test overrides only what it needs.
type mockDentistRepo struct {
	getByIDFunc     func(id string) (*models.Dentist, error)
	setCalendarFunc func(id string, calendar []models.DateSlots) error
}

func (m *mockDentistRepo) Create(d *models.Dentist) error { return nil }
func (m *mockDentistRepo) GetByID(id string) (*models.Dentist, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(id)
	}
	return &models.Dentist{ID: id, Name: "Dr. Test", Area: "General"}, nil
}
func (m *mockDentistRepo) GetAll() ([]models.Dentist, error) { return nil, nil }
func (m *mockDentistRepo) Update(d *models.Dentist) error    { return nil }
func (m *mockDentistRepo) Delete(id string) error            { return nil }
func (m *mockDentistRepo) SetCalendar(id string, calendar []models.DateSlots) error {
	if m.setCalendarFunc != nil {
		return m.setCalendarFunc(id, calendar)
	}
	return nil
}
func (m *mockDentistRepo) ClaimSlot(dentistID, date, timeLabel, appointmentID string) (bool, error) {
	return false, nil
}
func (m *mockDentistRepo) ReleaseSlot(dentistID, date, timeLabel string) error { return nil }

func TestSetCalendarValidation(t *testing.T) {
	svc := &DefaultDentistService{Repo: &mockDentistRepo{}}

	cases := []struct {
		name     string
		calendar []models.DateSlots
		wantErr  string
	}{
		{
			name: "bad date format",
			calendar: []models.DateSlots{
				{Date: "10/04/2025", Slots: []models.Slot{{Time: "09:00-10:00"}}},
			},
			wantErr: "invalid date",
		},
		{
			name: "unknown time label",
			calendar: []models.DateSlots{
				{Date: "2025-04-10", Slots: []models.Slot{{Time: "08:00-09:00"}}},
			},
			wantErr: "invalid time label",
		},
		{
			name: "duplicate date",
			calendar: []models.DateSlots{
				{Date: "2025-04-10", Slots: []models.Slot{{Time: "09:00-10:00"}}},
				{Date: "2025-04-10", Slots: []models.Slot{{Time: "10:00-11:00"}}},
			},
			wantErr: "duplicate date",
		},
		{
			name: "duplicate label on one date",
			calendar: []models.DateSlots{
				{Date: "2025-04-10", Slots: []models.Slot{
					{Time: "09:00-10:00"},
					{Time: "09:00-10:00"},
				}},
			},
			wantErr: "duplicate time label",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SetCalendar("d1", tc.calendar)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestSetCalendarValid(t *testing.T) {
	svc := &DefaultDentistService{Repo: &mockDentistRepo{}}

	calendar := []models.DateSlots{
		{Date: "2025-04-10", Slots: []models.Slot{
			{Time: "09:00-10:00"},
			{Time: "10:00-11:00"},
		}},
		{Date: "2025-04-11", Slots: []models.Slot{
			{Time: "09:00-10:00"},
		}},
	}
	if _, err := svc.SetCalendar("d1", calendar); err != nil {
		t.Fatalf("valid calendar rejected: %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc := &DefaultDentistService{Repo: &mockDentistRepo{
		getByIDFunc: func(id string) (*models.Dentist, error) { return nil, nil },
	}}
	if _, err := svc.GetByID("missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := &DefaultDentistService{Repo: &mockDentistRepo{}}

	if _, err := svc.Create(&models.Dentist{Area: "General"}); err == nil {
		t.Fatal("missing name should be rejected")
	}
	if _, err := svc.Create(&models.Dentist{Name: "Dr. X", Area: "General", YearsOfExperience: -1}); err == nil {
		t.Fatal("negative experience should be rejected")
	}
	d, err := svc.Create(&models.Dentist{Name: "Dr. X", Area: "General", YearsOfExperience: 5})
	if err != nil {
		t.Fatalf("valid dentist rejected: %v", err)
	}
	if d.ID == "" {
		t.Fatal("created dentist should get an id")
	}
}
