package repositoryImp

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"soilwatch/entities"
	"soilwatch/pkg/profile/repository"
)

const savedKey = "profiles_saved"

type profileRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ProfileRepository { return &profileRepo{db} }

func (r *profileRepo) List() ([]entities.Profile, error) {
	var out []entities.Profile
	if err := r.db.Order("position ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Replace stores list in order, dropping every profile not in it.
func (r *profileRepo) Replace(list []entities.Profile) error {
	rows := make([]entities.Profile, len(list))
	for i, p := range list {
		p.Position = i
		rows[i] = p
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entities.Profile{}).Error; err != nil {
			return fmt.Errorf("clear profiles: %w", err)
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("insert profiles: %w", err)
			}
		}
		mark := entities.Setting{Key: savedKey, Value: "1"}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&mark).Error; err != nil {
			return fmt.Errorf("mark profiles saved: %w", err)
		}
		return nil
	})
}

func (r *profileRepo) Saved() (bool, error) {
	var s entities.Setting
	err := r.db.Where(&entities.Setting{Key: savedKey}).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
