package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tadris-labs/school-backend-go/internal/domain/attendance"
	"github.com/tadris-labs/school-backend-go/internal/domain/payroll"
	"github.com/tadris-labs/school-backend-go/internal/domain/staff"
)

type memAttendanceRepo struct {
	records []attendance.Attendance
}

func (m *memAttendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	a.ID = "att-1"
	m.records = append(m.records, a)
	return a, nil
}

func (m *memAttendanceRepo) Upsert(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	for i := range m.records {
		if m.records[i].StaffID == a.StaffID && m.records[i].Date.Equal(a.Date) {
			a.ID = m.records[i].ID
			m.records[i] = a
			return a, nil
		}
	}
	a.ID = "att-1"
	m.records = append(m.records, a)
	return a, nil
}

func (m *memAttendanceRepo) Update(ctx context.Context, a attendance.Attendance) error {
	for i := range m.records {
		if m.records[i].ID == a.ID {
			m.records[i] = a
			return nil
		}
	}
	return attendance.ErrAttendanceNotFound
}

func (m *memAttendanceRepo) GetByStaffAndDate(ctx context.Context, staffID string, date time.Time, schoolID string) (*attendance.Attendance, error) {
	for i := range m.records {
		rec := &m.records[i]
		if rec.StaffID == staffID && rec.SchoolID == schoolID && rec.Date.Equal(date) {
			return rec, nil
		}
	}
	return nil, nil
}

func (m *memAttendanceRepo) ListInRange(ctx context.Context, schoolID string, from, to time.Time) ([]attendance.Attendance, error) {
	return m.records, nil
}

func (m *memAttendanceRepo) List(ctx context.Context, schoolID string, filter attendance.Filter) ([]attendance.Attendance, int64, error) {
	return m.records, int64(len(m.records)), nil
}

type memStaffRepo struct {
	members []staff.Staff
}

func (m *memStaffRepo) Create(ctx context.Context, s staff.Staff) (staff.Staff, error) {
	m.members = append(m.members, s)
	return s, nil
}

func (m *memStaffRepo) GetByID(ctx context.Context, id string, schoolID string) (staff.Staff, error) {
	for _, s := range m.members {
		if s.ID == id && s.SchoolID == schoolID {
			return s, nil
		}
	}
	return staff.Staff{}, staff.ErrStaffNotFound
}

func (m *memStaffRepo) ListActiveBySchool(ctx context.Context, schoolID string) ([]staff.Staff, error) {
	return m.members, nil
}

func (m *memStaffRepo) ListBySchool(ctx context.Context, schoolID string) ([]staff.Staff, error) {
	return m.members, nil
}

func (m *memStaffRepo) Update(ctx context.Context, schoolID string, req staff.UpdateStaffRequest) error {
	return nil
}

func (m *memStaffRepo) ListSchoolIDs(ctx context.Context) ([]string, error) {
	return nil, nil
}

// stubPayrollRepo only serves settings; the attendance service never touches
// the rest of the payroll surface.
type stubPayrollRepo struct {
	settings *payroll.Settings
}

func (s *stubPayrollRepo) GetSettings(ctx context.Context, schoolID string) (payroll.Settings, error) {
	if s.settings == nil {
		return payroll.Settings{}, payroll.ErrSettingsNotFound
	}
	return *s.settings, nil
}

func (s *stubPayrollRepo) UpsertSettings(ctx context.Context, settings payroll.Settings) (payroll.Settings, error) {
	return settings, nil
}

func (s *stubPayrollRepo) CreateOverride(ctx context.Context, override payroll.CalendarOverride) (payroll.CalendarOverride, error) {
	return override, nil
}

func (s *stubPayrollRepo) ListOverridesInRange(ctx context.Context, schoolID string, from, to time.Time) ([]payroll.CalendarOverride, error) {
	return nil, nil
}

func (s *stubPayrollRepo) DeleteOverride(ctx context.Context, id string, schoolID string) error {
	return nil
}

func (s *stubPayrollRepo) CreateSalary(ctx context.Context, record payroll.SalaryRecord) (payroll.SalaryRecord, error) {
	return record, nil
}

func (s *stubPayrollRepo) GetSalaryByID(ctx context.Context, id string, schoolID string) (payroll.SalaryRecord, error) {
	return payroll.SalaryRecord{}, payroll.ErrSalaryRecordNotFound
}

func (s *stubPayrollRepo) GetSalaryByStaffPeriod(ctx context.Context, staffID string, month, year int, schoolID string) (payroll.SalaryRecord, error) {
	return payroll.SalaryRecord{}, payroll.ErrSalaryRecordNotFound
}

func (s *stubPayrollRepo) ListSalariesForPeriod(ctx context.Context, schoolID string, month, year int) ([]payroll.SalaryRecord, error) {
	return nil, nil
}

func (s *stubPayrollRepo) ListSalaries(ctx context.Context, schoolID string, filter payroll.SalaryFilter) ([]payroll.SalaryRecord, int64, error) {
	return nil, 0, nil
}

func (s *stubPayrollRepo) GetSalaryItems(ctx context.Context, salaryRecordID string) ([]payroll.SalaryItem, error) {
	return nil, nil
}

func (s *stubPayrollRepo) MarkSalaryPaid(ctx context.Context, id string, schoolID string, method string, paidAt time.Time) error {
	return nil
}

func claimsContext(t *testing.T, schoolID string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"school_id": schoolID,
		"type":      "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func newTestService() (attendance.Service, *memAttendanceRepo) {
	attRepo := &memAttendanceRepo{}
	staffRepo := &memStaffRepo{members: []staff.Staff{
		{ID: "staff-1", SchoolID: "school-1", FullName: "Amina Hassan", BaseSalary: decimal.NewFromInt(3000), IsActive: true},
	}}
	return NewAttendanceService(attRepo, staffRepo, &stubPayrollRepo{}), attRepo
}

func TestCheckIn_OnTime(t *testing.T) {
	svc, repo := newTestService()
	ctx := claimsContext(t, "school-1")

	// Default shift starts at 08:00; arriving 07:55 is not late.
	at := time.Date(2025, 3, 5, 7, 55, 0, 0, time.UTC)
	resp, err := svc.CheckIn(ctx, attendance.CheckInRequest{StaffID: "staff-1", At: &at})

	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusPresent), resp.Status)
	require.NotNil(t, resp.LateMinutes)
	assert.Equal(t, 0, *resp.LateMinutes)
	assert.Len(t, repo.records, 1)
}

func TestCheckIn_LatePastGrace(t *testing.T) {
	svc, _ := newTestService()
	ctx := claimsContext(t, "school-1")

	// 08:40 is 40 minutes after shift start, past the 15-minute grace.
	at := time.Date(2025, 3, 5, 8, 40, 0, 0, time.UTC)
	resp, err := svc.CheckIn(ctx, attendance.CheckInRequest{StaffID: "staff-1", At: &at})

	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusLate), resp.Status)
	require.NotNil(t, resp.LateMinutes)
	assert.Equal(t, 40, *resp.LateMinutes)
}

func TestCheckIn_Twice(t *testing.T) {
	svc, _ := newTestService()
	ctx := claimsContext(t, "school-1")

	at := time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC)
	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{StaffID: "staff-1", At: &at})
	require.NoError(t, err)

	later := at.Add(time.Hour)
	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{StaffID: "staff-1", At: &later})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckIn_UnknownStaff(t *testing.T) {
	svc, _ := newTestService()
	ctx := claimsContext(t, "school-1")

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{StaffID: "nobody"})
	assert.ErrorIs(t, err, staff.ErrStaffNotFound)
}

func TestCheckOut_ComputesWorkedHoursAndOvertime(t *testing.T) {
	svc, _ := newTestService()
	ctx := claimsContext(t, "school-1")

	in := time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC)
	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{StaffID: "staff-1", At: &in})
	require.NoError(t, err)

	// Default shift ends 16:00; leaving at 17:30 is 90 minutes of overtime.
	out := time.Date(2025, 3, 5, 17, 30, 0, 0, time.UTC)
	resp, err := svc.CheckOut(ctx, attendance.CheckOutRequest{StaffID: "staff-1", At: &out})

	require.NoError(t, err)
	require.NotNil(t, resp.WorkedHours)
	assert.True(t, resp.WorkedHours.Equal(decimal.NewFromFloat(9.5)), "got %s", resp.WorkedHours)
	require.NotNil(t, resp.OvertimeMinutes)
	assert.Equal(t, 90, *resp.OvertimeMinutes)
}

func TestCheckOut_WithoutCheckIn(t *testing.T) {
	svc, _ := newTestService()
	ctx := claimsContext(t, "school-1")

	out := time.Date(2025, 3, 5, 16, 0, 0, 0, time.UTC)
	_, err := svc.CheckOut(ctx, attendance.CheckOutRequest{StaffID: "staff-1", At: &out})

	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestRecord_ManualAbsence(t *testing.T) {
	svc, repo := newTestService()
	ctx := claimsContext(t, "school-1")

	note := "sick leave"
	resp, err := svc.Record(ctx, attendance.RecordRequest{
		StaffID: "staff-1",
		Date:    "2025-03-05",
		Status:  string(attendance.StatusOnLeave),
		Note:    &note,
	})

	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusOnLeave), resp.Status)
	assert.Equal(t, "2025-03-05", resp.Date)
	assert.Len(t, repo.records, 1)
}

func TestRecord_RejectsUnknownStatus(t *testing.T) {
	svc, _ := newTestService()
	ctx := claimsContext(t, "school-1")

	_, err := svc.Record(ctx, attendance.RecordRequest{
		StaffID: "staff-1",
		Date:    "2025-03-05",
		Status:  "vacationing",
	})

	assert.Error(t, err)
}
