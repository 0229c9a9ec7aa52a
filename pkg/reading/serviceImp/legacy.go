package serviceImp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"soilwatch/entities"
	"soilwatch/pkg/reading/service"
)

// legacyNumber accepts a JSON number, a numeric string, "" or null. The
// browser app sometimes stored pH as the raw form string.
type legacyNumber struct {
	v   float64
	set bool
}

func (n *legacyNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", b)
	}
	n.v, n.set = v, true
	return nil
}

func (n legacyNumber) ptr() *float64 {
	if !n.set {
		return nil
	}
	v := n.v
	return &v
}

// legacyReading mirrors the soil_readings_v1 browser storage format.
type legacyReading struct {
	ID             string       `json:"id"`
	Date           string       `json:"date"`
	Location       string       `json:"location"`
	Ph             legacyNumber `json:"ph"`
	N              legacyNumber `json:"n"`
	K              legacyNumber `json:"k"`
	Moisture       legacyNumber `json:"moisture"`
	Hydrogen       legacyNumber `json:"hydrogen"`
	CropType       string       `json:"cropType"`
	SoilColor      string       `json:"soilColor"`
	SeedType       string       `json:"seedType"`
	FertilizerUsed string       `json:"fertilizerUsed"`
	PesticideUsed  string       `json:"pesticideUsed"`
	Notes          string       `json:"notes"`
}

func (l legacyReading) input() service.NewReading {
	return service.NewReading{
		Date:           l.Date,
		Location:       l.Location,
		Ph:             l.Ph.ptr(),
		Moisture:       l.Moisture.ptr(),
		N:              l.N.ptr(),
		K:              l.K.ptr(),
		Hydrogen:       l.Hydrogen.ptr(),
		CropType:       l.CropType,
		SoilColor:      l.SoilColor,
		SeedType:       l.SeedType,
		FertilizerUsed: l.FertilizerUsed,
		PesticideUsed:  l.PesticideUsed,
		Notes:          l.Notes,
	}
}

// Import appends the readings of a browser export to the store. Entries that
// fail validation are skipped; ids already present get a fresh one. Stored
// readings are never rewritten.
func (s *readingSvc) Import(r io.Reader) (int, error) {
	var raw []legacyReading
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return 0, fmt.Errorf("%w: decode import: %v", service.ErrInvalidReading, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.r.List("")
	if err != nil {
		return 0, fmt.Errorf("list readings: %w", err)
	}
	seen := make(map[string]bool, len(current))
	for _, m := range current {
		seen[m.ID] = true
	}

	added := make([]entities.Reading, 0, len(raw))
	for i, l := range raw {
		in := normalize(l.input())
		if in.Date == "" {
			s.log.Warnw("import: skipping reading without date", "index", i)
			continue
		}
		if err := s.check(in); err != nil {
			s.log.Warnw("import: skipping invalid reading", "index", i, "err", err)
			continue
		}
		id := strings.TrimSpace(l.ID)
		if id == "" || seen[id] {
			id = uuid.NewString()
		}
		seen[id] = true
		added = append(added, *s.toEntity(in, id))
	}
	if len(added) == 0 {
		return 0, nil
	}
	if err := s.r.Append(added); err != nil {
		return 0, fmt.Errorf("save import: %w", err)
	}
	s.log.Infow("readings imported", "count", len(added), "skipped", len(raw)-len(added))
	return len(added), nil
}
