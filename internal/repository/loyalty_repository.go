package repository

import (
	"context"
	"errors"

	"coffee-shop/internal/apperror"
	"coffee-shop/internal/entity"

	"gorm.io/gorm"
)

func (r *Repository) GetProgramByName(ctx context.Context, name string) (*entity.LoyaltyProgram, error) {
	var program entity.LoyaltyProgram
	err := r.conn(ctx).
		Preload("Tiers", func(db *gorm.DB) *gorm.DB { return db.Order("stamp_number") }).
		Where("name = ? AND is_active = ?", name, true).
		First(&program).Error
	if err != nil {
		return nil, notFound(err, "loyalty program %q not found", name)
	}
	return &program, nil
}

// SaveProgram upserts the program by name and replaces its tier set.
func (r *Repository) SaveProgram(ctx context.Context, program *entity.LoyaltyProgram) error {
	var existing entity.LoyaltyProgram
	err := r.conn(ctx).Where("name = ?", program.Name).First(&existing).Error
	switch {
	case err == nil:
		program.ID = existing.ID
	case errors.Is(err, gorm.ErrRecordNotFound):
		tiers := program.Tiers
		program.Tiers = nil
		if err := r.conn(ctx).Create(program).Error; err != nil {
			return err
		}
		program.Tiers = tiers
	default:
		return err
	}
	// is_active has a column default, so a false value is written explicitly.
	err = r.conn(ctx).Model(&entity.LoyaltyProgram{}).Where("id = ?", program.ID).
		Update("is_active", program.IsActive).Error
	if err != nil {
		return err
	}

	if err := r.conn(ctx).Where("program_id = ?", program.ID).Delete(&entity.LoyaltyRewardTier{}).Error; err != nil {
		return err
	}
	for i := range program.Tiers {
		program.Tiers[i].ID = 0
		program.Tiers[i].ProgramID = program.ID
	}
	if len(program.Tiers) == 0 {
		return nil
	}
	err = r.conn(ctx).Create(&program.Tiers).Error
	if IsDuplicateKey(err) {
		return apperror.NewValidation("stamp numbers must be unique within a program")
	}
	return err
}
