package medications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"eldercare-reminders/internal/domain/schedule"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Medication
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Medication{}}
}

func (r *testRepo) Create(ctx context.Context, m Medication) error {
	if m.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[m.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Update(ctx context.Context, m Medication) error {
	if _, ok := r.byID[m.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Medication, error) {
	m, ok := r.byID[id]
	if !ok {
		return Medication{}, ErrNotFound
	}
	return m, nil
}

func (r *testRepo) List(ctx context.Context) ([]Medication, error) {
	out := make([]Medication, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, m)
	}
	return out, nil
}

type testKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newTestKV() *testKV { return &testKV{data: map[string]string{}} }

func (k *testKV) Get(ctx context.Context, key string) (string, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.data[key]
	return v, ok, nil
}

func (k *testKV) Set(ctx context.Context, key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.data[key] = value
	return nil
}

func (k *testKV) Delete(ctx context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.data, key)
	return nil
}

// -------------------------
// Helpers
// -------------------------

// jueves 14/03/2024 12:10
var fixedNow = time.Date(2024, 3, 14, 12, 10, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *testKV) {
	t.Helper()
	kv := newTestKV()
	svc := NewService(newTestRepo(), NewIntakeLog(kv), 30*time.Minute)
	svc.now = func() time.Time { return fixedNow }
	return svc, kv
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func mustCreate(t *testing.T, svc *Service, in CreateInput) Medication {
	t.Helper()
	m, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create %s: %v", in.Name, err)
	}
	return m
}

// seed carga el set de ejemplo: Lisinopril, Metformin y Vitamin D vencen hoy, Aspirin no.
func seed(t *testing.T, svc *Service) map[string]Medication {
	t.Helper()
	out := map[string]Medication{}
	out["lisinopril"] = mustCreate(t, svc, CreateInput{
		Name: "Lisinopril", DosageAmount: "10mg", DosageUnit: UnitOneTablet,
		Time: "8:00 AM", Frequency: schedule.FrequencyDaily, StartDate: date(2024, 3, 1),
	})
	out["metformin"] = mustCreate(t, svc, CreateInput{
		Name: "Metformin", DosageAmount: "500mg", DosageUnit: UnitOneTablet,
		Time: "12:00 PM", Frequency: schedule.FrequencyDaily, StartDate: date(2024, 3, 1),
	})
	out["aspirin"] = mustCreate(t, svc, CreateInput{
		Name: "Aspirin", DosageAmount: "81mg", DosageUnit: UnitOneTablet,
		Time: "8:00 PM", Frequency: schedule.FrequencyEveryOtherDay, StartDate: date(2024, 3, 13),
	})
	out["vitd"] = mustCreate(t, svc, CreateInput{
		Name: "Vitamin D", DosageAmount: "1000IU", DosageUnit: UnitTwoTablets,
		Time: "9:00 AM", Frequency: schedule.FrequencyWeekly, StartDate: date(2024, 3, 7),
	})
	return out
}

// -------------------------
// Tests
// -------------------------

func TestCreate_NormalizesAndDefaultsStartDate(t *testing.T) {
	svc, _ := newTestService(t)

	m := mustCreate(t, svc, CreateInput{
		Name: "  Lisinopril ", DosageAmount: "10mg", DosageUnit: UnitOneTablet,
		Time: "08:00 AM", Frequency: schedule.FrequencyDaily,
	})

	if m.Name != "Lisinopril" {
		t.Fatalf("expected trimmed name, got %q", m.Name)
	}
	if m.TimeLabel != "8:00 AM" {
		t.Fatalf("expected normalized time, got %q", m.TimeLabel)
	}
	if !m.StartDate.Equal(schedule.StartOfDay(fixedNow)) {
		t.Fatalf("expected start date today, got %v", m.StartDate)
	}
	if got := m.Dosage(); got != "10mg - 1 tablet" {
		t.Fatalf("unexpected dosage text %q", got)
	}
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	svc, _ := newTestService(t)

	base := CreateInput{
		Name: "Lisinopril", DosageUnit: UnitOneTablet, Time: "8:00 AM", Frequency: schedule.FrequencyDaily,
	}

	cases := map[string]func(in *CreateInput){
		"empty name":   func(in *CreateInput) { in.Name = "  " },
		"bad unit":     func(in *CreateInput) { in.DosageUnit = "7 tablets" },
		"bad freq":     func(in *CreateInput) { in.Frequency = "Monthly" },
		"bad time":     func(in *CreateInput) { in.Time = "8:00" },
		"lower pm":     func(in *CreateInput) { in.Time = "8:00 pm" },
		"end < start":  func(in *CreateInput) { in.StartDate = date(2024, 3, 10); in.EndDate = date(2024, 3, 9) },
		"13 o'clock":   func(in *CreateInput) { in.Time = "13:00 PM" },
		"minutes > 59": func(in *CreateInput) { in.Time = "8:60 AM" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := base
			mutate(&in)
			_, err := svc.Create(context.Background(), in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestList_SortedByTimeAndExcludesDeleted(t *testing.T) {
	svc, _ := newTestService(t)
	meds := seed(t, svc)

	if err := svc.Delete(context.Background(), meds["metformin"].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	items, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []string{"Lisinopril", "Vitamin D", "Aspirin"}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, name := range want {
		if items[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, items[i].Name)
		}
	}

	if _, err := svc.GetByID(context.Background(), meds["metformin"].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for deleted medication, got %v", err)
	}
}

func TestUpdate_PatchesOnlyGivenFields(t *testing.T) {
	svc, _ := newTestService(t)
	meds := seed(t, svc)

	newTime := "7:30 AM"
	m, err := svc.Update(context.Background(), meds["lisinopril"].ID, UpdateInput{Time: &newTime})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if m.TimeLabel != "7:30 AM" || m.Name != "Lisinopril" || m.DosageAmount != "10mg" {
		t.Fatalf("unexpected patched medication: %+v", m)
	}

	bad := "7:30"
	if _, err := svc.Update(context.Background(), meds["lisinopril"].ID, UpdateInput{Time: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAgenda_TodayBucketsAndStatuses(t *testing.T) {
	svc, _ := newTestService(t)
	seed(t, svc)

	a, err := svc.Agenda(context.Background(), ViewToday)
	if err != nil {
		t.Fatalf("agenda: %v", err)
	}
	if len(a.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(a.Sections))
	}

	morning := a.Sections[0]
	if morning.Bucket != schedule.BucketMorning || len(morning.Items) != 2 {
		t.Fatalf("unexpected morning section: %+v", morning)
	}
	if morning.Items[0].Medication.Name != "Lisinopril" || morning.Items[1].Medication.Name != "Vitamin D" {
		t.Fatalf("unexpected morning order")
	}
	for _, d := range morning.Items {
		if d.Status != schedule.DoseMissed {
			t.Fatalf("%s: expected missed, got %s", d.Medication.Name, d.Status)
		}
	}

	afternoon := a.Sections[1]
	if afternoon.Bucket != schedule.BucketAfternoon || len(afternoon.Items) != 1 {
		t.Fatalf("unexpected afternoon section: %+v", afternoon)
	}
	if afternoon.Items[0].Status != schedule.DoseNow {
		t.Fatalf("expected metformin to be due now, got %s", afternoon.Items[0].Status)
	}
}

func TestAgenda_TomorrowAndUpcoming(t *testing.T) {
	svc, _ := newTestService(t)
	seed(t, svc)

	a, err := svc.Agenda(context.Background(), ViewTomorrow)
	if err != nil {
		t.Fatalf("agenda tomorrow: %v", err)
	}
	names := map[string]bool{}
	for _, sec := range a.Sections {
		for _, d := range sec.Items {
			names[d.Medication.Name] = true
			if d.Status != schedule.DoseUpcoming {
				t.Fatalf("tomorrow dose %s should be upcoming, got %s", d.Medication.Name, d.Status)
			}
		}
	}
	if !names["Aspirin"] || !names["Lisinopril"] || !names["Metformin"] || names["Vitamin D"] {
		t.Fatalf("unexpected tomorrow set: %v", names)
	}

	up, err := svc.Agenda(context.Background(), ViewUpcoming)
	if err != nil {
		t.Fatalf("agenda upcoming: %v", err)
	}
	total := 0
	for _, sec := range up.Sections {
		total += len(sec.Items)
	}
	if total != 4 {
		t.Fatalf("expected all 4 active medications, got %d", total)
	}

	if _, err := svc.Agenda(context.Background(), View("yesterday")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown view, got %v", err)
	}
}

func TestMarkTaken_IdempotentAndUndo(t *testing.T) {
	svc, kv := newTestService(t)
	meds := seed(t, svc)
	ctx := context.Background()
	id := meds["metformin"].ID

	for i := 0; i < 2; i++ {
		d, err := svc.MarkTaken(ctx, id)
		if err != nil {
			t.Fatalf("mark taken #%d: %v", i, err)
		}
		if d.Status != schedule.DoseTaken {
			t.Fatalf("expected taken, got %s", d.Status)
		}
	}

	if got := kv.data[IntakeKey(fixedNow)]; got != `["`+id+`"]` {
		t.Fatalf("expected single intake entry, got %s", got)
	}

	d, err := svc.UndoTaken(ctx, id)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if d.Status != schedule.DoseNow {
		t.Fatalf("expected status now after undo, got %s", d.Status)
	}
	if _, ok := kv.data[IntakeKey(fixedNow)]; ok {
		t.Fatalf("expected empty day key to be removed")
	}
}

func TestMarkTaken_NotDueToday(t *testing.T) {
	svc, _ := newTestService(t)
	meds := seed(t, svc)

	_, err := svc.MarkTaken(context.Background(), meds["aspirin"].ID)
	if !errors.Is(err, ErrBadState) {
		t.Fatalf("expected ErrBadState, got %v", err)
	}
}

func TestDueOn_LegacyRecordWithoutStartDate(t *testing.T) {
	svc, _ := newTestService(t)
	repo := svc.repo.(*testRepo)

	// registro viejo sin start date: Every Other Day se ancla en hoy
	repo.byID["legacy"] = Medication{
		ID: "legacy", Name: "Legacy", DosageUnit: UnitOneTablet,
		TimeLabel: "9:00 PM", Frequency: schedule.FrequencyEveryOtherDay,
	}

	today := schedule.StartOfDay(fixedNow)
	for offset, want := range map[int]bool{0: true, 1: false, 2: true} {
		doses, err := svc.DueOn(context.Background(), today.AddDate(0, 0, offset))
		if err != nil {
			t.Fatalf("due on +%d: %v", offset, err)
		}
		if got := len(doses) == 1; got != want {
			t.Fatalf("offset %d: expected due=%v, got %v", offset, want, got)
		}
	}
}

func TestDueOn_RespectsEndDate(t *testing.T) {
	svc, _ := newTestService(t)
	mustCreate(t, svc, CreateInput{
		Name: "Antibiotic", DosageUnit: UnitOneTablet, Time: "8:00 AM",
		Frequency: schedule.FrequencyDaily, StartDate: date(2024, 3, 10), EndDate: date(2024, 3, 14),
	})

	today := schedule.StartOfDay(fixedNow)
	doses, _ := svc.DueOn(context.Background(), today)
	if len(doses) != 1 {
		t.Fatalf("expected dose on last day, got %d", len(doses))
	}
	doses, _ = svc.DueOn(context.Background(), today.AddDate(0, 0, 1))
	if len(doses) != 0 {
		t.Fatalf("expected no dose after end date, got %d", len(doses))
	}
}

func TestAdherence(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	m := mustCreate(t, svc, CreateInput{
		Name: "Lisinopril", DosageUnit: UnitOneTablet, Time: "8:00 AM",
		Frequency: schedule.FrequencyDaily, StartDate: date(2024, 3, 12),
	})

	// 12 y 13 tomadas; hoy no
	log := svc.intakes
	_ = log.Record(ctx, m.ID, *date(2024, 3, 12))
	_ = log.Record(ctx, m.ID, *date(2024, 3, 13))

	a, err := svc.Adherence(ctx, 7)
	if err != nil {
		t.Fatalf("adherence: %v", err)
	}
	if a.Due != 3 || a.Taken != 2 || a.Percent != 66 {
		t.Fatalf("unexpected adherence: %+v", a)
	}

	if _, err := svc.Adherence(ctx, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAdherence_NoDosesIsFull(t *testing.T) {
	svc, _ := newTestService(t)
	a, err := svc.Adherence(context.Background(), 30)
	if err != nil {
		t.Fatalf("adherence: %v", err)
	}
	if a.Percent != 100 || a.Due != 0 {
		t.Fatalf("unexpected adherence: %+v", a)
	}
}

func TestList_SkipsCorruptTimeLabel(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seed(t, svc)

	repo := svc.repo.(*testRepo)
	repo.byID["corrupt"] = Medication{
		ID: "corrupt", Name: "Broken", DosageUnit: UnitOneTablet,
		TimeLabel: "25:99", Frequency: schedule.FrequencyDaily, StartDate: *date(2024, 3, 1),
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, m := range list {
		if m.ID == "corrupt" {
			t.Fatalf("corrupt record should be skipped")
		}
	}
	if len(list) != 4 {
		t.Fatalf("expected the 4 valid medications, got %d", len(list))
	}

	if _, err := svc.DueOn(ctx, fixedNow); err != nil {
		t.Fatalf("due on: %v", err)
	}
	for _, v := range []View{ViewToday, ViewTomorrow, ViewUpcoming} {
		if _, err := svc.Agenda(ctx, v); err != nil {
			t.Fatalf("agenda %s: %v", v, err)
		}
	}
	if _, err := svc.Adherence(ctx, 7); err != nil {
		t.Fatalf("adherence: %v", err)
	}
}
