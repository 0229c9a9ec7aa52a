package serviceImp

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"soilwatch/entities"
	repo "soilwatch/pkg/profile/repository"
	"soilwatch/pkg/profile/service"
	"soilwatch/pkg/validation"
)

type profileSvc struct {
	r   repo.ProfileRepository
	v   *validation.Validator
	log *zap.SugaredLogger
	mu  sync.Mutex
}

func New(r repo.ProfileRepository, v *validation.Validator, log *zap.SugaredLogger) service.ProfileService {
	return &profileSvc{r: r, v: v, log: log}
}

// Defaults seeds a profile table that was never saved.
func Defaults() []entities.Profile {
	return []entities.Profile{
		{
			ID:         uuid.NewString(),
			Name:       "Farmer Singh",
			Phone:      "+91 98765 43210",
			Location:   "Ludhiana, Punjab",
			Experience: "Expert (10+ years)",
			Tags:       []string{"Organic Farming"},
			Active:     true,
		},
		{
			ID:         uuid.NewString(),
			Name:       "Rajesh Kumar",
			Phone:      "+91 87246 32190",
			Location:   "Nashik, Maharashtra",
			Experience: "Intermediate (3-10 years)",
			Tags:       []string{"Crop Rotation"},
		},
	}
}

func (s *profileSvc) List() ([]entities.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.r.List()
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	if len(list) > 0 {
		return list, nil
	}
	// seed only a fresh table; a list the user emptied stays empty
	saved, err := s.r.Saved()
	if err != nil {
		return nil, fmt.Errorf("profiles saved: %w", err)
	}
	if saved {
		return []entities.Profile{}, nil
	}
	list = Defaults()
	if err := s.r.Replace(list); err != nil {
		return nil, fmt.Errorf("seed profiles: %w", err)
	}
	s.log.Infow("seeded default profiles", "count", len(list))
	return list, nil
}

func (s *profileSvc) Replace(in []service.ProfileInput) ([]entities.Profile, error) {
	out := make([]entities.Profile, 0, len(in))
	seen := make(map[string]bool, len(in))
	for i, p := range in {
		p.Name = strings.TrimSpace(p.Name)
		if err := s.v.Validate(p); err != nil {
			return nil, fmt.Errorf("%w: profile %d: %v", service.ErrInvalidProfile, i, err)
		}
		id := strings.TrimSpace(p.ID)
		if id == "" || seen[id] {
			id = uuid.NewString()
		}
		seen[id] = true
		out = append(out, entities.Profile{
			ID:         id,
			Name:       p.Name,
			Phone:      strings.TrimSpace(p.Phone),
			Location:   strings.TrimSpace(p.Location),
			Experience: strings.TrimSpace(p.Experience),
			Tags:       p.Tags,
			Active:     p.Active,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.r.Replace(out); err != nil {
		return nil, fmt.Errorf("replace profiles: %w", err)
	}
	return out, nil
}

// Active is the first profile flagged active, else the first one.
func (s *profileSvc) Active() (*entities.Profile, error) {
	list, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, service.ErrNoProfiles
	}
	for i := range list {
		if list[i].Active {
			return &list[i], nil
		}
	}
	return &list[0], nil
}
