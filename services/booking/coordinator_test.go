package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	appointmentRepo "dencare/database/repository/appointment"
	"dencare/models"
)

// In-memory fakes for the two stores and the ledger. The fakes keep
// the same atomicity contracts as the real implementations: ledger
// acquire is first-writer-wins, slot claim only succeeds on an
// unbooked slot, appointment create enforces the unique user index.

type fakeEntry struct {
	rec       models.ReservationRecord
	expiresAt time.Time
}

type fakeLedger struct {
	mu      sync.Mutex
	entries map[string]fakeEntry
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{entries: make(map[string]fakeEntry)}
}

func (l *fakeLedger) TryAcquire(ctx context.Context, key string, rec models.ReservationRecord, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[key]; ok && e.expiresAt.After(time.Now()) {
		return false, nil
	}
	l.entries[key] = fakeEntry{rec: rec, expiresAt: time.Now().Add(ttl)}
	return true, nil
}

func (l *fakeLedger) Get(ctx context.Context, key string) (*models.ReservationRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok || !e.expiresAt.After(time.Now()) {
		return nil, nil
	}
	rec := e.rec
	return &rec, nil
}

func (l *fakeLedger) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
	return nil
}

// expire simulates the TTL elapsing for a key.
func (l *fakeLedger) expire(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
}

func (l *fakeLedger) has(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	return ok && e.expiresAt.After(time.Now())
}

type memDentistRepo struct {
	mu        sync.Mutex
	dentists  map[string]*models.Dentist
	denyClaim bool
}

func newMemDentistRepo(dentists ...*models.Dentist) *memDentistRepo {
	r := &memDentistRepo{dentists: make(map[string]*models.Dentist)}
	for _, d := range dentists {
		r.dentists[d.ID] = d
	}
	return r
}

func copyDentist(d *models.Dentist) *models.Dentist {
	out := *d
	out.Calendar = make([]models.DateSlots, len(d.Calendar))
	for i, ds := range d.Calendar {
		out.Calendar[i] = models.DateSlots{Date: ds.Date, Slots: append([]models.Slot(nil), ds.Slots...)}
	}
	return &out
}

func (r *memDentistRepo) Create(d *models.Dentist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dentists[d.ID] = copyDentist(d)
	return nil
}

func (r *memDentistRepo) GetByID(id string) (*models.Dentist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.dentists[id]
	if !ok {
		return nil, nil
	}
	return copyDentist(d), nil
}

func (r *memDentistRepo) GetAll() ([]models.Dentist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Dentist
	for _, d := range r.dentists {
		out = append(out, *copyDentist(d))
	}
	return out, nil
}

func (r *memDentistRepo) Update(d *models.Dentist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dentists[d.ID] = copyDentist(d)
	return nil
}

func (r *memDentistRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.dentists, id)
	return nil
}

func (r *memDentistRepo) SetCalendar(id string, calendar []models.DateSlots) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.dentists[id]; ok {
		d.Calendar = calendar
	}
	return nil
}

func (r *memDentistRepo) ClaimSlot(dentistID, date, timeLabel, appointmentID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.denyClaim {
		return false, nil
	}
	d, ok := r.dentists[dentistID]
	if !ok {
		return false, nil
	}
	ds := d.FindDate(date)
	if ds == nil {
		return false, nil
	}
	slot := ds.FindSlot(timeLabel)
	if slot == nil || slot.Booked {
		return false, nil
	}
	slot.Booked = true
	slot.AppointmentID = appointmentID
	return true, nil
}

func (r *memDentistRepo) ReleaseSlot(dentistID, date, timeLabel string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.dentists[dentistID]; ok {
		if ds := d.FindDate(date); ds != nil {
			if slot := ds.FindSlot(timeLabel); slot != nil {
				slot.Booked = false
				slot.AppointmentID = ""
			}
		}
	}
	return nil
}

// markBooked flips a slot booked outside the protocol, simulating a
// concurrent writer.
func (r *memDentistRepo) markBooked(dentistID, date, timeLabel string) {
	_, _ = r.ClaimSlot(dentistID, date, timeLabel, "external")
}

type memApptRepo struct {
	mu   sync.Mutex
	byID map[string]models.Appointment
}

func newMemApptRepo() *memApptRepo {
	return &memApptRepo{byID: make(map[string]models.Appointment)}
}

func (r *memApptRepo) Create(a *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.UserID == a.UserID {
			return appointmentRepo.ErrDuplicateUser
		}
	}
	r.byID[a.ID] = *a
	return nil
}

func (r *memApptRepo) GetByID(id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.byID[id]; ok {
		out := a
		return &out, nil
	}
	return nil, nil
}

func (r *memApptRepo) ListAll() ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.byID {
		out = append(out, a)
	}
	return out, nil
}

func (r *memApptRepo) ListByUser(userID string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.byID {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memApptRepo) ListByDentist(dentistID string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.byID {
		if a.DentistID == dentistID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memApptRepo) CountByUser(userID string) (int64, error) {
	appts, _ := r.ListByUser(userID)
	return int64(len(appts)), nil
}

func (r *memApptRepo) Update(a *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID]; !ok {
		return fmt.Errorf("appointment with id %s not found", a.ID)
	}
	r.byID[a.ID] = *a
	return nil
}

func (r *memApptRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("appointment with id %s not found", id)
	}
	delete(r.byID, id)
	return nil
}

type fakeEnqueuer struct {
	mu       sync.Mutex
	enqueued []models.Appointment
}

func (f *fakeEnqueuer) EnqueueReminder(appt models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enqueued = append(f.enqueued, appt)
	return nil
}

const (
	testDentist = "d1"
	testDate    = "2025-04-10"
	testTime    = "09:00-10:00"
)

func testCalendarDentist() *models.Dentist {
	return &models.Dentist{
		ID:   testDentist,
		Name: "Dr. Molar",
		Area: "Orthodontics",
		Calendar: []models.DateSlots{
			{Date: testDate, Slots: []models.Slot{
				{Time: testTime},
				{Time: "10:00-11:00"},
			}},
		},
	}
}

func newTestService() (*DefaultBookingService, *memDentistRepo, *memApptRepo, *fakeLedger) {
	dents := newMemDentistRepo(testCalendarDentist())
	appts := newMemApptRepo()
	ledger := newFakeLedger()
	svc := &DefaultBookingService{
		DentistRepo:      dents,
		ApptRepo:         appts,
		Ledger:           ledger,
		ReservationTTL:   600 * time.Second,
		AdminBypassLimit: true,
	}
	return svc, dents, appts, ledger
}

func wantKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	var be *Error
	if !errors.As(err, &be) {
		t.Fatalf("expected booking.Error, got %T: %v", err, err)
	}
	if be.Kind != kind {
		t.Fatalf("expected kind %s, got %s (%v)", kind, be.Kind, err)
	}
}

func TestReserveConcurrentSingleWinner(t *testing.T) {
	svc, _, _, _ := newTestService()

	const n = 16
	var wg sync.WaitGroup
	results := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("user-%d", i)
			_, err := svc.Reserve(context.Background(), testDentist, testDate, testTime, user, models.RoleUser)
			results[i] = err
		}(i)
	}
	wg.Wait()

	wins, conflicts := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case KindOf(err) == KindConflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly 1 winner, got %d", wins)
	}
	if conflicts != n-1 {
		t.Fatalf("expected %d conflicts, got %d", n-1, conflicts)
	}
}

func TestReserveValidation(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Reserve(ctx, "no-such-dentist", testDate, testTime, "u1", models.RoleUser)
	wantKind(t, err, KindNotFound)

	_, err = svc.Reserve(ctx, testDentist, "2025-12-25", testTime, "u1", models.RoleUser)
	wantKind(t, err, KindInvalidRequest)

	_, err = svc.Reserve(ctx, testDentist, testDate, "11:00-12:00", "u1", models.RoleUser)
	wantKind(t, err, KindInvalidRequest)
}

func TestReserveBookedSlotConflicts(t *testing.T) {
	svc, dents, _, _ := newTestService()
	dents.markBooked(testDentist, testDate, testTime)

	_, err := svc.Reserve(context.Background(), testDentist, testDate, testTime, "u1", models.RoleUser)
	wantKind(t, err, KindConflict)
}

func TestReserveSingleAppointmentLimit(t *testing.T) {
	svc, _, appts, _ := newTestService()
	_ = appts.Create(&models.Appointment{ID: "a1", UserID: "u1", DentistID: testDentist, Date: testDate, Time: "10:00-11:00"})

	_, err := svc.Reserve(context.Background(), testDentist, testDate, testTime, "u1", models.RoleUser)
	wantKind(t, err, KindConflict)

	// Admin bypass is on by default here.
	_ = appts.Create(&models.Appointment{ID: "a2", UserID: "admin1", DentistID: testDentist, Date: testDate, Time: "10:00-11:00"})
	if _, err := svc.Reserve(context.Background(), testDentist, testDate, testTime, "admin1", models.RoleAdmin); err != nil {
		t.Fatalf("admin with bypass should reserve, got %v", err)
	}
}

func TestReserveAdminBypassDisabled(t *testing.T) {
	svc, _, appts, _ := newTestService()
	svc.AdminBypassLimit = false
	_ = appts.Create(&models.Appointment{ID: "a1", UserID: "admin1", DentistID: testDentist, Date: testDate, Time: "10:00-11:00"})

	_, err := svc.Reserve(context.Background(), testDentist, testDate, testTime, "admin1", models.RoleAdmin)
	wantKind(t, err, KindConflict)
}

func TestConfirmWithoutReserve(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Confirm(context.Background(), testDentist, testDate, testTime, "u1", models.RoleUser)
	wantKind(t, err, KindExpired)
}

func TestConfirmWrongOwner(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Reserve(ctx, testDentist, testDate, testTime, "u1", models.RoleUser); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	_, err := svc.Confirm(ctx, testDentist, testDate, testTime, "u2", models.RoleUser)
	wantKind(t, err, KindForbidden)
}

func TestConfirmRevalidatesBookedSlot(t *testing.T) {
	svc, dents, appts, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Reserve(ctx, testDentist, testDate, testTime, "u1", models.RoleUser); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	// The catalog changes underneath the reservation.
	dents.markBooked(testDentist, testDate, testTime)

	_, err := svc.Confirm(ctx, testDentist, testDate, testTime, "u1", models.RoleUser)
	wantKind(t, err, KindConflict)

	if n, _ := appts.CountByUser("u1"); n != 0 {
		t.Fatalf("no appointment should exist after failed confirm, got %d", n)
	}
}

func TestConfirmCommitsAndReleasesLedger(t *testing.T) {
	svc, dents, appts, ledger := newTestService()
	enq := &fakeEnqueuer{}
	svc.Reminders = enq
	ctx := context.Background()

	if _, err := svc.Reserve(ctx, testDentist, testDate, testTime, "u1", models.RoleUser); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	appt, err := svc.Confirm(ctx, testDentist, testDate, testTime, "u1", models.RoleUser)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if appt.ID == "" || appt.UserID != "u1" || appt.Date != testDate || appt.Time != testTime {
		t.Fatalf("unexpected appointment: %+v", appt)
	}

	stored, _ := appts.GetByID(appt.ID)
	if stored == nil {
		t.Fatal("appointment not persisted")
	}

	d, _ := dents.GetByID(testDentist)
	slot := d.FindDate(testDate).FindSlot(testTime)
	if !slot.Booked || slot.AppointmentID != appt.ID {
		t.Fatalf("slot not committed: %+v", slot)
	}

	if ledger.has(LedgerKey(testDentist, testDate, testTime)) {
		t.Fatal("ledger entry should be released after confirm")
	}
	if len(enq.enqueued) != 1 || enq.enqueued[0].ID != appt.ID {
		t.Fatalf("expected one reminder for %s, got %+v", appt.ID, enq.enqueued)
	}
}

func TestConfirmLostClaimRollsBackAppointment(t *testing.T) {
	svc, dents, appts, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Reserve(ctx, testDentist, testDate, testTime, "u1", models.RoleUser); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	dents.denyClaim = true

	_, err := svc.Confirm(ctx, testDentist, testDate, testTime, "u1", models.RoleUser)
	wantKind(t, err, KindConflict)

	if n, _ := appts.CountByUser("u1"); n != 0 {
		t.Fatalf("compensation should delete the appointment, found %d", n)
	}
}

func TestExpiredReservationFreesKey(t *testing.T) {
	svc, _, _, ledger := newTestService()
	ctx := context.Background()

	if _, err := svc.Reserve(ctx, testDentist, testDate, testTime, "u1", models.RoleUser); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	// A never confirms; the TTL elapses.
	ledger.expire(LedgerKey(testDentist, testDate, testTime))

	if _, err := svc.Reserve(ctx, testDentist, testDate, testTime, "u2", models.RoleUser); err != nil {
		t.Fatalf("reserve after expiry should succeed, got %v", err)
	}

	// A's confirm now fails: the session is gone.
	_, err := svc.Confirm(ctx, testDentist, testDate, testTime, "u1", models.RoleUser)
	wantKind(t, err, KindExpired)
}

func TestReserveConfirmRetryScenario(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	// A reserves.
	if _, err := svc.Reserve(ctx, testDentist, testDate, testTime, "userA", models.RoleUser); err != nil {
		t.Fatalf("A reserve: %v", err)
	}
	// B tries the same slot within the TTL.
	_, err := svc.Reserve(ctx, testDentist, testDate, testTime, "userB", models.RoleUser)
	wantKind(t, err, KindConflict)

	// A confirms; booking becomes durable.
	if _, err := svc.Confirm(ctx, testDentist, testDate, testTime, "userA", models.RoleUser); err != nil {
		t.Fatalf("A confirm: %v", err)
	}

	// B retries: still Conflict, now from the durable catalog.
	_, err = svc.Reserve(ctx, testDentist, testDate, testTime, "userB", models.RoleUser)
	wantKind(t, err, KindConflict)
}

func TestCancelReleasesSlot(t *testing.T) {
	svc, dents, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Reserve(ctx, testDentist, testDate, testTime, "u1", models.RoleUser); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	appt, err := svc.Confirm(ctx, testDentist, testDate, testTime, "u1", models.RoleUser)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}

	// Another user cannot cancel it.
	wantKind(t, svc.CancelAppointment(ctx, appt.ID, "u2", models.RoleUser), KindForbidden)

	if err := svc.CancelAppointment(ctx, appt.ID, "u1", models.RoleUser); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	d, _ := dents.GetByID(testDentist)
	if slot := d.FindDate(testDate).FindSlot(testTime); slot.Booked {
		t.Fatal("slot should be free after cancel")
	}

	// The slot is reservable again.
	if _, err := svc.Reserve(ctx, testDentist, testDate, testTime, "u2", models.RoleUser); err != nil {
		t.Fatalf("reserve after cancel: %v", err)
	}
}

func TestUpdateMovesSlots(t *testing.T) {
	svc, dents, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Reserve(ctx, testDentist, testDate, testTime, "u1", models.RoleUser); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	appt, err := svc.Confirm(ctx, testDentist, testDate, testTime, "u1", models.RoleUser)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}

	moved, err := svc.UpdateAppointment(ctx, appt.ID, "u1", models.RoleUser, AppointmentChange{Time: "10:00-11:00"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if moved.Time != "10:00-11:00" {
		t.Fatalf("expected moved time, got %s", moved.Time)
	}

	d, _ := dents.GetByID(testDentist)
	if slot := d.FindDate(testDate).FindSlot(testTime); slot.Booked {
		t.Fatal("old slot should be released")
	}
	if slot := d.FindDate(testDate).FindSlot("10:00-11:00"); !slot.Booked || slot.AppointmentID != appt.ID {
		t.Fatalf("new slot should be claimed: %+v", slot)
	}
}

func TestUpdateToBookedSlotKeepsOldHold(t *testing.T) {
	svc, dents, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Reserve(ctx, testDentist, testDate, testTime, "u1", models.RoleUser); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	appt, err := svc.Confirm(ctx, testDentist, testDate, testTime, "u1", models.RoleUser)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	dents.markBooked(testDentist, testDate, "10:00-11:00")

	_, err = svc.UpdateAppointment(ctx, appt.ID, "u1", models.RoleUser, AppointmentChange{Time: "10:00-11:00"})
	wantKind(t, err, KindConflict)

	d, _ := dents.GetByID(testDentist)
	if slot := d.FindDate(testDate).FindSlot(testTime); !slot.Booked || slot.AppointmentID != appt.ID {
		t.Fatalf("old slot should still be held: %+v", slot)
	}
}

func TestGetAppointmentOwnership(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Reserve(ctx, testDentist, testDate, testTime, "u1", models.RoleUser); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	appt, err := svc.Confirm(ctx, testDentist, testDate, testTime, "u1", models.RoleUser)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if _, err := svc.GetAppointment(ctx, appt.ID, "u1", models.RoleUser); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := svc.GetAppointment(ctx, appt.ID, "admin1", models.RoleAdmin); err != nil {
		t.Fatalf("admin read: %v", err)
	}
	_, err = svc.GetAppointment(ctx, appt.ID, "u2", models.RoleUser)
	wantKind(t, err, KindForbidden)

	_, err = svc.GetAppointment(ctx, "missing", "u1", models.RoleUser)
	wantKind(t, err, KindNotFound)
}

func TestReleaseIdempotent(t *testing.T) {
	_, _, _, ledger := newTestService()
	key := LedgerKey(testDentist, testDate, testTime)

	if err := ledger.Release(context.Background(), key); err != nil {
		t.Fatalf("releasing an absent key should be a no-op, got %v", err)
	}
	if err := ledger.Release(context.Background(), key); err != nil {
		t.Fatalf("repeat release should be a no-op, got %v", err)
	}
}
