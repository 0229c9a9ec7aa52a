package serviceImp

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"soilwatch/database"
	"soilwatch/entities"
	"soilwatch/pkg/advisory"
	repo "soilwatch/pkg/reading/repository"
	"soilwatch/pkg/reading/repositoryImp"
	"soilwatch/pkg/reading/service"
	"soilwatch/pkg/summary"
	"soilwatch/pkg/validation"
)

func newSvc(t *testing.T) (*readingSvc, repo.ReadingRepository) {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "soil.db"), "")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	log := zap.NewNop().Sugar()
	r := repositoryImp.New(db, log)
	s := New(r, validation.New(), time.UTC, log).(*readingSvc)
	s.now = func() time.Time { return time.Date(2024, 4, 9, 23, 0, 0, 0, time.UTC) }
	return s, r
}

func ptr(v float64) *float64 { return &v }

func mustAdd(t *testing.T, s *readingSvc, in service.NewReading) *entities.Reading {
	t.Helper()
	m, _, err := s.Add(in)
	if err != nil {
		t.Fatalf("Add(%+v): %v", in, err)
	}
	return m
}

func TestAddAssignsIDAndEvaluates(t *testing.T) {
	s, r := newSvc(t)
	m, sugg, err := s.Add(service.NewReading{Location: "  North  ", Ph: ptr(5.2), Moisture: ptr(10), Notes: " limed "})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if m.ID == "" || m.Location != "North" || m.Notes != "limed" {
		t.Fatalf("stored reading = %+v", m)
	}
	if m.Date != "2024-04-09" {
		t.Fatalf("default date = %q", m.Date)
	}
	if len(sugg) != 2 || sugg[0].Status != advisory.StatusAcidic || sugg[1].Status != advisory.StatusDry {
		t.Fatalf("suggestions = %+v", sugg)
	}
	if _, err := r.FindByID(m.ID); err != nil {
		t.Fatalf("reading not persisted: %v", err)
	}
}

func TestAddDefaultDateUsesTimezone(t *testing.T) {
	s, _ := newSvc(t)
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skip("tzdata not available")
	}
	s.loc = loc
	m := mustAdd(t, s, service.NewReading{Location: "A", Ph: ptr(6.5)})
	if m.Date != "2024-04-10" {
		t.Fatalf("date = %q, want next day in IST", m.Date)
	}
}

func TestAddRejectsInvalid(t *testing.T) {
	s, _ := newSvc(t)
	bad := []service.NewReading{
		{Location: "A"},
		{Location: "A", Ph: ptr(14.5)},
		{Location: "A", Ph: ptr(-0.1)},
		{Location: "   ", Ph: ptr(6)},
		{Location: "A", Ph: ptr(6), Date: "04/09/2024"},
		{Location: "A", Ph: ptr(6), Moisture: ptr(120)},
		{Location: "A", Ph: ptr(6), N: ptr(-1)},
	}
	for _, in := range bad {
		if _, _, err := s.Add(in); !errors.Is(err, service.ErrInvalidReading) {
			t.Errorf("Add(%+v) err = %v, want ErrInvalidReading", in, err)
		}
	}
	if list, _ := s.List(service.Filter{}); len(list) != 0 {
		t.Fatalf("invalid readings were stored: %+v", list)
	}
}

func TestEvaluateDoesNotStore(t *testing.T) {
	s, _ := newSvc(t)
	sugg, err := s.Evaluate(service.NewReading{Ph: ptr(8.2)})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if sugg[0].Status != advisory.StatusAlkaline {
		t.Fatalf("suggestions = %+v", sugg)
	}
	if list, _ := s.List(service.Filter{}); len(list) != 0 {
		t.Fatal("Evaluate must not persist")
	}
	if _, err := s.Evaluate(service.NewReading{Ph: ptr(20)}); !errors.Is(err, service.ErrInvalidReading) {
		t.Fatalf("Evaluate(ph=20) err = %v", err)
	}
}

func TestRemoveAndSuggestions(t *testing.T) {
	s, _ := newSvc(t)
	m := mustAdd(t, s, service.NewReading{Location: "A", Ph: ptr(7.9), Date: "2024-01-01"})
	sugg, err := s.Suggestions(m.ID)
	if err != nil || sugg[0].Status != advisory.StatusAlkaline {
		t.Fatalf("Suggestions = %+v, %v", sugg, err)
	}
	if err := s.Remove(m.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove(m.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("Remove twice err = %v", err)
	}
	if _, err := s.Suggestions(m.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("Suggestions after remove err = %v", err)
	}
}

func TestListFilterAndSearch(t *testing.T) {
	s, _ := newSvc(t)
	mustAdd(t, s, service.NewReading{Location: "North", Ph: ptr(6.5), Date: "2024-01-01", Notes: "After RAIN"})
	mustAdd(t, s, service.NewReading{Location: "South", Ph: ptr(5.5), Date: "2024-01-02"})
	mustAdd(t, s, service.NewReading{Location: "North", Ph: ptr(7), Date: "2024-01-03"})

	got, _ := s.List(service.Filter{Location: "North"})
	if len(got) != 2 {
		t.Fatalf("location filter = %d rows", len(got))
	}
	got, _ = s.List(service.Filter{Search: "rain"})
	if len(got) != 1 || got[0].Notes != "After RAIN" {
		t.Fatalf("search rain = %+v", got)
	}
	got, _ = s.List(service.Filter{Search: "5.5"})
	if len(got) != 1 || got[0].Location != "South" {
		t.Fatalf("search 5.5 = %+v", got)
	}
	got, _ = s.List(service.Filter{Location: "South", Search: "north"})
	if len(got) != 0 {
		t.Fatalf("combined filter = %+v", got)
	}

	locs, _ := s.Locations()
	if strings.Join(locs, ",") != "North,South" {
		t.Fatalf("Locations = %v", locs)
	}
	pts, _ := s.Series("North")
	if len(pts) != 2 || pts[0].Date != "2024-01-01" || pts[1].Ph != 7 {
		t.Fatalf("Series = %+v", pts)
	}
}

func TestSummary(t *testing.T) {
	s, _ := newSvc(t)
	mustAdd(t, s, service.NewReading{Location: "A", Ph: ptr(6.2), Date: "2024-02-01"})
	mustAdd(t, s, service.NewReading{Location: "A", Ph: ptr(6.8), Date: "2024-02-15"})
	mustAdd(t, s, service.NewReading{Location: "B", Ph: ptr(7.0), Date: "2024-02-15"})

	got, err := s.Summary(summary.Monthly, "")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(got) != 2 || got["A"][0] != (summary.Bucket{Label: "2024-02", Avg: 6.5, Count: 2}) {
		t.Fatalf("Summary = %+v", got)
	}
	got, _ = s.Summary(summary.Weekly, "B")
	if len(got) != 1 || got["B"][0].Label != "2024-02-12 → 2024-02-18" {
		t.Fatalf("Summary(B) = %+v", got)
	}
}

func TestDashboard(t *testing.T) {
	s, _ := newSvc(t)
	d, err := s.Dashboard()
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if d.LatestPh != nil || d.ReadingCount != 0 || d.ReferenceQuery != "soil pH management" {
		t.Fatalf("empty dashboard = %+v", d)
	}

	mustAdd(t, s, service.NewReading{Location: "A", Ph: ptr(6.5), Date: "2024-01-01", Moisture: ptr(90)})
	dates := []string{"2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"}
	for i, m := range []float64{40, 50, 60, 70} {
		mustAdd(t, s, service.NewReading{Location: "B", Ph: ptr(6.5), Date: dates[i], Moisture: ptr(m)})
	}
	mustAdd(t, s, service.NewReading{Location: "C", Ph: ptr(6.5), Date: "2024-01-07"})
	mustAdd(t, s, service.NewReading{Location: "A", Ph: ptr(5.0), Date: "2024-01-08", Moisture: ptr(21)})

	d, _ = s.Dashboard()
	if d.ReadingCount != 7 || d.FieldsActive != 3 {
		t.Fatalf("counts = %+v", d)
	}
	if d.LatestPh == nil || *d.LatestPh != 5.0 {
		t.Fatalf("LatestPh = %v", d.LatestPh)
	}
	// last five with moisture: 21, 70, 60, 50, 40
	if d.MoistureAvg != 48 {
		t.Fatalf("MoistureAvg = %d, want 48", d.MoistureAvg)
	}
	if d.Alerts != 2 || !strings.Contains(d.ReferenceQuery, "lime") {
		t.Fatalf("alerts = %d, query = %q", d.Alerts, d.ReferenceQuery)
	}
}

func backup(id, date, location string, ph *float64) service.BackupReading {
	return service.BackupReading{ID: id, NewReading: service.NewReading{Date: date, Location: location, Ph: ph}}
}

func TestReplace(t *testing.T) {
	s, _ := newSvc(t)
	mustAdd(t, s, service.NewReading{Location: "Old", Ph: ptr(6), Date: "2023-01-01"})

	bad := map[string][]service.BackupReading{
		"ph out of range": {backup("keep", "2024-01-01", "A", ptr(6)), backup("", "2024-01-02", "A", ptr(15))},
		"ph missing":      {backup("x", "2024-01-01", "A", nil)},
		"date missing":    {backup("x", "", "A", ptr(6))},
		"duplicate ids":   {backup("dup", "2024-01-01", "A", ptr(6)), backup("dup", "2024-01-02", "A", ptr(6))},
	}
	for name, list := range bad {
		if err := s.Replace(list); !errors.Is(err, service.ErrInvalidReading) {
			t.Fatalf("%s: err = %v", name, err)
		}
		if all := s.All(); len(all) != 1 || all[0].Location != "Old" {
			t.Fatalf("%s: failed Replace must not touch the store: %+v", name, all)
		}
	}

	if err := s.Replace([]service.BackupReading{
		backup("keep", "2024-01-01", " A ", ptr(6)),
		backup("", "2024-01-02", "B", ptr(0)),
	}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	all := s.All()
	if len(all) != 2 || all[0].ID != "keep" || all[0].Location != "A" || all[1].ID == "" || all[1].Ph != 0 {
		t.Fatalf("All after Replace = %+v", all)
	}
}

func TestImportLegacy(t *testing.T) {
	s, _ := newSvc(t)
	existing := mustAdd(t, s, service.NewReading{Location: "A", Ph: ptr(6), Date: "2024-01-01"})

	body := `[
		{"id":"l1","date":"2024-01-05","location":"Field A","ph":"6.4","moisture":12,"notes":"imported"},
		{"id":"` + existing.ID + `","date":"2024-01-06","location":"Field A","ph":7},
		{"id":"l3","date":"2024-01-07","location":"Field A","ph":19},
		{"id":"l4","location":"Field A","ph":6},
		{"id":"l5","date":"2024-01-08","location":"","ph":6},
		{"id":"l6","date":"2024-01-09","location":"Field B","ph":6.9,"n":null,"k":""}
	]`
	n, err := s.Import(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 3 {
		t.Fatalf("imported %d, want 3", n)
	}
	all := s.All()
	if len(all) != 4 {
		t.Fatalf("store has %d readings, want 4", len(all))
	}
	l1, err := s.Get("l1")
	if err != nil {
		t.Fatalf("Get(l1): %v", err)
	}
	if l1.Ph != 6.4 || l1.Moisture == nil || *l1.Moisture != 12 {
		t.Fatalf("l1 = %+v", l1)
	}
	l6, _ := s.Get("l6")
	if l6 == nil || l6.N != nil || l6.K != nil {
		t.Fatalf("l6 = %+v", l6)
	}

	if _, err := s.Import(strings.NewReader(`{"not":"a list"}`)); !errors.Is(err, service.ErrInvalidReading) {
		t.Fatalf("Import malformed err = %v", err)
	}
}

// flakyList fails List while keeping the rest of the repository working.
type flakyList struct {
	repo.ReadingRepository
}

func (f flakyList) List(string) ([]entities.Reading, error) {
	return nil, errors.New("db busy")
}

func TestImportKeepsStoreWhenListFails(t *testing.T) {
	s, r := newSvc(t)
	mustAdd(t, s, service.NewReading{Location: "A", Ph: ptr(6), Date: "2024-01-01"})
	mustAdd(t, s, service.NewReading{Location: "B", Ph: ptr(6.5), Date: "2024-01-02"})

	s.r = flakyList{r}
	if _, err := s.Import(strings.NewReader(`[{"date":"2024-01-03","location":"X","ph":7}]`)); err == nil {
		t.Fatal("Import must report the read error")
	}
	s.r = r

	if all := s.All(); len(all) != 2 || all[0].Location != "A" || all[1].Location != "B" {
		t.Fatalf("store after failed import = %+v", all)
	}
}

// noRewrite refuses whole-collection saves.
type noRewrite struct {
	repo.ReadingRepository
}

func (noRewrite) Save([]entities.Reading) error {
	return errors.New("whole-store rewrite")
}

func TestImportOnlyInserts(t *testing.T) {
	s, r := newSvc(t)
	mustAdd(t, s, service.NewReading{Location: "A", Ph: ptr(6), Date: "2024-01-01"})
	s.r = noRewrite{r}

	n, err := s.Import(strings.NewReader(`[{"id":"n1","date":"2023-12-31","location":"X","ph":7}]`))
	if err != nil || n != 1 {
		t.Fatalf("Import = %d, %v", n, err)
	}
	if all := s.All(); len(all) != 2 || all[0].ID != "n1" || all[1].Location != "A" {
		t.Fatalf("All = %+v", all)
	}
}
