package database

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gadgetstore/internal/models"
)

// SeedDefaults inserts the roles and statuses the application relies on.
// It is idempotent.
func SeedDefaults(ctx context.Context, db *gorm.DB) error {
	for _, name := range []string{models.RoleAdmin, models.RoleUser} {
		role := models.Role{Name: name}
		if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&role).Error; err != nil {
			return errors.Wrapf(err, "failed to seed role %s", name)
		}
	}
	for _, name := range models.DefaultStatuses {
		status := models.Status{Name: name}
		if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&status).Error; err != nil {
			return errors.Wrapf(err, "failed to seed status %s", name)
		}
	}
	return nil
}

// SeedAdmin creates the administrator account when no user owns email yet.
func SeedAdmin(ctx context.Context, db *gorm.DB, email, password string, logger *slog.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return errors.Wrap(err, "failed to look up admin")
	}
	if count > 0 {
		return nil
	}

	var role models.Role
	if err := db.WithContext(ctx).First(&role, "name = ?", models.RoleAdmin).Error; err != nil {
		return errors.Wrap(err, "admin role missing, run SeedDefaults first")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "failed to hash admin password")
	}

	admin := models.User{
		Username: "admin",
		Email:    email,
		Password: string(hash),
		RoleID:   role.ID,
	}
	if err := db.WithContext(ctx).Omit(clause.Associations).Create(&admin).Error; err != nil {
		return errors.Wrap(err, "failed to create admin")
	}
	logger.Info("seeded admin account", "email", email)
	return nil
}

// SeedCatalog populates a demo catalog: categories, brands and a few devices.
// Existing rows are left untouched.
func SeedCatalog(ctx context.Context, db *gorm.DB, logger *slog.Logger) error {
	var active models.Status
	if err := db.WithContext(ctx).First(&active, "name = ?", models.StatusActive).Error; err != nil {
		return errors.Wrap(err, "active status missing, run SeedDefaults first")
	}

	categories := map[string]*models.Category{
		"Phones":  {Name: "Phones", Description: "Smartphones"},
		"Laptops": {Name: "Laptops", Description: "Notebooks and ultrabooks"},
		"Tablets": {Name: "Tablets", Description: "Tablets and e-readers"},
	}
	for _, c := range categories {
		if err := firstOrCreate(ctx, db, c, "name = ?", c.Name); err != nil {
			return err
		}
	}

	brands := map[string]*models.Brand{
		"Apple":   {Name: "Apple"},
		"Samsung": {Name: "Samsung"},
		"Lenovo":  {Name: "Lenovo"},
	}
	for _, b := range brands {
		if err := firstOrCreate(ctx, db, b, "name = ?", b.Name); err != nil {
			return err
		}
	}

	products := []models.Product{
		{Name: "Galaxy S24", Description: "6.2\" AMOLED phone", Price: 899, Quantity: 25, CategoryID: categories["Phones"].ID, BrandID: &brands["Samsung"].ID},
		{Name: "iPhone 15", Description: "6.1\" OLED phone", Price: 999, Quantity: 20, CategoryID: categories["Phones"].ID, BrandID: &brands["Apple"].ID},
		{Name: "ThinkPad X1 Carbon", Description: "14\" business laptop", Price: 1749, Quantity: 8, CategoryID: categories["Laptops"].ID, BrandID: &brands["Lenovo"].ID},
		{Name: "MacBook Air 13", Description: "13\" M3 laptop", Price: 1299, Quantity: 12, CategoryID: categories["Laptops"].ID, BrandID: &brands["Apple"].ID},
		{Name: "Galaxy Tab S9", Description: "11\" tablet", Price: 799, Quantity: 15, CategoryID: categories["Tablets"].ID, BrandID: &brands["Samsung"].ID},
	}
	for i := range products {
		products[i].StatusID = active.ID
		products[i].Active = true
		if err := firstOrCreate(ctx, db, &products[i], "name = ?", products[i].Name); err != nil {
			return err
		}
	}

	logger.Info("seeded demo catalog", "categories", len(categories), "brands", len(brands), "products", len(products))
	return nil
}

func firstOrCreate(ctx context.Context, db *gorm.DB, dest any, query string, args ...any) error {
	err := db.WithContext(ctx).Omit(clause.Associations).Where(query, args...).FirstOrCreate(dest).Error
	if err != nil {
		return errors.Wrap(err, "failed to seed row")
	}
	return nil
}
