package serviceImp

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"soilwatch/entities"
	"soilwatch/pkg/advisory"
	repo "soilwatch/pkg/reading/repository"
	"soilwatch/pkg/reading/service"
	"soilwatch/pkg/rounding"
	"soilwatch/pkg/summary"
	"soilwatch/pkg/validation"
)

// moisture tile averages the most recent readings that carry moisture
const moistureWindow = 5

type readingSvc struct {
	r   repo.ReadingRepository
	v   *validation.Validator
	loc *time.Location
	log *zap.SugaredLogger
	now func() time.Time

	mu sync.Mutex // serializes writes, Import and Replace read-modify-write
}

func New(r repo.ReadingRepository, v *validation.Validator, loc *time.Location, log *zap.SugaredLogger) service.ReadingService {
	if loc == nil {
		loc = time.UTC
	}
	return &readingSvc{r: r, v: v, loc: loc, log: log, now: time.Now}
}

func (s *readingSvc) Add(in service.NewReading) (*entities.Reading, []advisory.Suggestion, error) {
	in = normalize(in)
	if err := s.check(in); err != nil {
		return nil, nil, err
	}
	m := s.toEntity(in, uuid.NewString())

	s.mu.Lock()
	err := s.r.Create(m)
	s.mu.Unlock()
	if err != nil {
		return nil, nil, fmt.Errorf("create reading: %w", err)
	}
	s.log.Infow("reading added", "id", m.ID, "location", m.Location, "ph", m.Ph)
	return m, advisory.Evaluate(*m), nil
}

func (s *readingSvc) Evaluate(in service.NewReading) ([]advisory.Suggestion, error) {
	in = normalize(in)
	if in.Location == "" {
		in.Location = summary.DefaultLocation
	}
	if err := s.check(in); err != nil {
		return nil, err
	}
	return advisory.Evaluate(*s.toEntity(in, "")), nil
}

func (s *readingSvc) Get(id string) (*entities.Reading, error) { return s.r.FindByID(id) }

func (s *readingSvc) Suggestions(id string) ([]advisory.Suggestion, error) {
	m, err := s.r.FindByID(id)
	if err != nil {
		return nil, err
	}
	return advisory.Evaluate(*m), nil
}

func (s *readingSvc) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.r.Delete(id); err != nil {
		return err
	}
	s.log.Infow("reading removed", "id", id)
	return nil
}

func (s *readingSvc) List(f service.Filter) ([]entities.Reading, error) {
	list, err := s.r.List(f.Location)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return list, nil
	}
	out := make([]entities.Reading, 0, len(list))
	for _, m := range list {
		hay := strings.ToLower(m.Date + " " + m.Location + " " + strconv.FormatFloat(m.Ph, 'f', -1, 64) + " " + m.Notes)
		if strings.Contains(hay, q) {
			out = append(out, m)
		}
	}
	return out, nil
}

// Locations lists distinct locations in the order they first appear.
func (s *readingSvc) Locations() ([]string, error) {
	list, err := s.r.List("")
	if err != nil {
		return nil, err
	}
	return distinctLocations(list), nil
}

func (s *readingSvc) Series(location string) ([]service.Point, error) {
	list, err := s.r.List(location)
	if err != nil {
		return nil, err
	}
	out := make([]service.Point, 0, len(list))
	for _, m := range list {
		out = append(out, service.Point{Date: m.Date, Ph: m.Ph})
	}
	return out, nil
}

func (s *readingSvc) Summary(period summary.Period, location string) (map[string][]summary.Bucket, error) {
	list, err := s.r.List(location)
	if err != nil {
		return nil, err
	}
	return summary.Summarize(list, period), nil
}

func (s *readingSvc) Dashboard() (service.Dashboard, error) {
	list, err := s.r.List("")
	if err != nil {
		return service.Dashboard{}, err
	}
	d := service.Dashboard{
		ReadingCount:   len(list),
		FieldsActive:   len(distinctLocations(list)),
		ReferenceQuery: advisory.ReferenceQuery(nil),
	}
	if len(list) == 0 {
		return d, nil
	}
	latest := list[len(list)-1]
	ph := latest.Ph
	d.Latest = &latest
	d.LatestPh = &ph
	sugg := advisory.Evaluate(latest)
	d.Alerts = len(sugg)
	d.ReferenceQuery = advisory.ReferenceQuery(sugg)

	var moist []float64
	for i := len(list) - 1; i >= 0 && len(moist) < moistureWindow; i-- {
		if list[i].Moisture != nil {
			moist = append(moist, *list[i].Moisture)
		}
	}
	if len(moist) > 0 {
		d.MoistureAvg = int(rounding.HalfUp(stat.Mean(moist, nil), 0))
	}
	return d, nil
}

func (s *readingSvc) All() []entities.Reading { return s.r.Load() }

// Replace validates every reading before overwriting the store, so a bad
// backup leaves the current data untouched.
func (s *readingSvc) Replace(list []service.BackupReading) error {
	out := make([]entities.Reading, 0, len(list))
	seen := map[string]bool{}
	for i, m := range list {
		in := normalize(m.NewReading)
		if in.Date == "" {
			return fmt.Errorf("%w: reading %d: date is required", service.ErrInvalidReading, i)
		}
		if err := s.check(in); err != nil {
			return fmt.Errorf("reading %d: %w", i, err)
		}
		id := strings.TrimSpace(m.ID)
		if id == "" {
			id = uuid.NewString()
		}
		if seen[id] {
			return fmt.Errorf("%w: reading %d: duplicate id %q", service.ErrInvalidReading, i, id)
		}
		seen[id] = true
		out = append(out, *s.toEntity(in, id))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.r.Save(out); err != nil {
		return fmt.Errorf("save readings: %w", err)
	}
	s.log.Infow("readings replaced", "count", len(out))
	return nil
}

func (s *readingSvc) check(in service.NewReading) error {
	if err := s.v.Validate(in); err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidReading, err)
	}
	return nil
}

func (s *readingSvc) toEntity(in service.NewReading, id string) *entities.Reading {
	date := in.Date
	if date == "" {
		date = s.now().In(s.loc).Format("2006-01-02")
	}
	return &entities.Reading{
		ID:             id,
		Date:           date,
		Location:       in.Location,
		Ph:             *in.Ph,
		Moisture:       in.Moisture,
		N:              in.N,
		K:              in.K,
		Hydrogen:       in.Hydrogen,
		CropType:       in.CropType,
		SoilColor:      in.SoilColor,
		SeedType:       in.SeedType,
		FertilizerUsed: in.FertilizerUsed,
		PesticideUsed:  in.PesticideUsed,
		Notes:          in.Notes,
	}
}

func normalize(in service.NewReading) service.NewReading {
	in.Date = strings.TrimSpace(in.Date)
	in.Location = strings.TrimSpace(in.Location)
	in.CropType = strings.TrimSpace(in.CropType)
	in.SoilColor = strings.TrimSpace(in.SoilColor)
	in.SeedType = strings.TrimSpace(in.SeedType)
	in.FertilizerUsed = strings.TrimSpace(in.FertilizerUsed)
	in.PesticideUsed = strings.TrimSpace(in.PesticideUsed)
	in.Notes = strings.TrimSpace(in.Notes)
	return in
}

func distinctLocations(list []entities.Reading) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, m := range list {
		if !seen[m.Location] {
			seen[m.Location] = true
			out = append(out, m.Location)
		}
	}
	return out
}
