package repositoryImp

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"soilwatch/entities"
	"soilwatch/pkg/reading/repository"
)

const batchSize = 200

type readingRepo struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) repository.ReadingRepository {
	return &readingRepo{db: db, log: log}
}

func (r *readingRepo) Create(m *entities.Reading) error { return r.db.Create(m).Error }

func (r *readingRepo) Append(list []entities.Reading) error {
	if len(list) == 0 {
		return nil
	}
	rows := stamp(list)
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(&rows, batchSize).Error; err != nil {
			return fmt.Errorf("insert readings: %w", err)
		}
		return nil
	})
}

func (r *readingRepo) FindByID(id string) (*entities.Reading, error) {
	var out entities.Reading
	if err := r.db.First(&out, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *readingRepo) Delete(id string) error {
	res := r.db.Delete(&entities.Reading{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *readingRepo) List(location string) ([]entities.Reading, error) {
	q := r.db.Model(&entities.Reading{})
	if location != "" {
		q = q.Where("location = ?", location)
	}
	var out []entities.Reading
	if err := q.Order("date ASC, created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *readingRepo) Load() []entities.Reading {
	list, err := r.List("")
	if err != nil {
		r.log.Warnw("load readings failed", "err", err)
		return []entities.Reading{}
	}
	out := list[:0]
	for _, m := range list {
		if m.ID == "" || math.IsNaN(m.Ph) || m.Ph < 0 || m.Ph > 14 {
			r.log.Warnw("skipping malformed reading", "id", m.ID, "ph", m.Ph)
			continue
		}
		out = append(out, m)
	}
	return out
}

func (r *readingRepo) Save(list []entities.Reading) error {
	rows := stamp(list)
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entities.Reading{}).Error; err != nil {
			return fmt.Errorf("clear readings: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&rows, batchSize).Error; err != nil {
			return fmt.Errorf("insert readings: %w", err)
		}
		return nil
	})
}

// stamp copies list and fills CreatedAt so readings sharing a date keep the
// caller's order.
func stamp(list []entities.Reading) []entities.Reading {
	rows := make([]entities.Reading, len(list))
	copy(rows, list)
	base := time.Now()
	for i := range rows {
		if rows[i].CreatedAt.IsZero() {
			rows[i].CreatedAt = base.Add(time.Duration(i) * time.Microsecond)
		}
	}
	return rows
}
