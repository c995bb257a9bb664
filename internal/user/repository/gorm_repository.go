package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/catalog-admin/internal/user/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
	"github.com/tair/catalog-admin/pkg/database"
)

var tracer = otel.Tracer("user-repository")

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Create inserts a new user
func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) (err error) {
	ctx, span := tracer.Start(ctx, "user.Create", trace.WithAttributes(attribute.String("user.email", user.Email)))
	defer func() { finish(span, err) }()

	if err = database.Conn(ctx, r.db).Create(user).Error; err != nil {
		var pqErr *pq.Error
		if errors.Is(err, gorm.ErrDuplicatedKey) || (errors.As(err, &pqErr) && pqErr.Code == "23505") {
			return apperror.Validation("email", "The email has already been taken")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	span.SetAttributes(attribute.Int("user.id", int(user.ID)))
	return nil
}

// Update saves the name, email and password of an existing user
func (r *GormUserRepository) Update(ctx context.Context, user *domain.User) (err error) {
	ctx, span := tracer.Start(ctx, "user.Update", trace.WithAttributes(attribute.Int("user.id", int(user.ID))))
	defer func() { finish(span, err) }()

	result := database.Conn(ctx, r.db).Model(user).Select("name", "email", "password", "updated_at").Updates(user)
	if err = result.Error; err != nil {
		var pqErr *pq.Error
		if errors.Is(err, gorm.ErrDuplicatedKey) || (errors.As(err, &pqErr) && pqErr.Code == "23505") {
			return apperror.Validation("email", "The email has already been taken")
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("user", user.ID)
	}
	return nil
}

// FindByID retrieves a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (_ *domain.User, err error) {
	ctx, span := tracer.Start(ctx, "user.FindByID", trace.WithAttributes(attribute.Int("user.id", int(id))))
	defer func() { finish(span, err) }()

	var user domain.User
	if err = database.Conn(ctx, r.db).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// FindByEmail retrieves a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (_ *domain.User, err error) {
	ctx, span := tracer.Start(ctx, "user.FindByEmail")
	defer func() { finish(span, err) }()

	var user domain.User
	if err = database.Conn(ctx, r.db).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// Count returns the total number of users
func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := database.Conn(ctx, r.db).Model(&domain.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// AutoMigrate runs database migrations
func (r *GormUserRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.User{})
}
