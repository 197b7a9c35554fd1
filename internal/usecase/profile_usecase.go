package usecase

import (
	"context"
	"errors"
	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/apperror"
	"go-profile-backend/pkg/logger"
	"go-profile-backend/pkg/validation"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	msgNoProfileForUser = "There is no profile for this user"
	msgNoProfiles       = "There are no profiles"
	msgNoProfileFound   = "No profile found"
	msgNoProfileForThat = "There is no profile for that user"
	msgHandleTaken      = "That handle already exists"
)

type profileUsecase struct {
	profiles   domain.ProfileRepository
	identities domain.IdentityRepository
	tx         domain.Transactor
	validate   *validator.Validate
}

func NewProfileUsecase(
	profiles domain.ProfileRepository,
	identities domain.IdentityRepository,
	tx domain.Transactor,
	validate *validator.Validate,
) domain.ProfileUsecase {
	return &profileUsecase{
		profiles:   profiles,
		identities: identities,
		tx:         tx,
		validate:   validate,
	}
}

func noProfile(message string) *apperror.AppError {
	return apperror.FieldError(http.StatusNotFound, "noprofile", message)
}

func handleTaken() *apperror.AppError {
	return apperror.FieldError(http.StatusBadRequest, "handle", msgHandleTaken)
}

func storeFailure(op, userID string, err error) *apperror.AppError {
	logger.Log.Error("Profile store failure", "op", op, "user_id", userID, "error", err)
	return apperror.StoreFailure(err)
}

// GetOwnProfile returns the caller's profile with owner name and avatar.
func (u *profileUsecase) GetOwnProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	return u.loadOwned(ctx, "get_own", userID)
}

// loadOwned fetches the profile owned by userID for owner-side operations.
func (u *profileUsecase) loadOwned(ctx context.Context, op, userID string) (*domain.Profile, error) {
	profile, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, noProfile(msgNoProfileForUser)
		}
		return nil, storeFailure(op, userID, err)
	}
	return profile, nil
}

// ListProfiles returns every profile. No profiles at all is reported as 404.
func (u *profileUsecase) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	profiles, err := u.profiles.List(ctx)
	if err != nil {
		logger.Log.Error("Failed to list profiles", "error", err)
		return nil, apperror.FieldError(http.StatusNotFound, "profile", msgNoProfiles)
	}
	if len(profiles) == 0 {
		return nil, noProfile(msgNoProfiles)
	}
	return profiles, nil
}

func (u *profileUsecase) GetByHandle(ctx context.Context, handle string) (*domain.Profile, error) {
	profile, err := u.profiles.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, noProfile(msgNoProfileForUser)
		}
		return nil, storeFailure("get_by_handle", "", err)
	}
	return profile, nil
}

func (u *profileUsecase) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, noProfile(msgNoProfileFound)
		}
		logger.Log.Error("Failed to load profile by user", "user_id", userID, "error", err)
		return nil, apperror.FieldError(http.StatusNotFound, "profile", msgNoProfileForThat)
	}
	return profile, nil
}

// SaveProfile updates the caller's profile in place, or creates it when the
// caller has none yet. Creation is refused when the handle belongs to
// another profile.
func (u *profileUsecase) SaveProfile(ctx context.Context, userID string, input domain.ProfileInput) (*domain.Profile, error) {
	if err := u.validate.Struct(input); err != nil {
		return nil, apperror.Validation(validation.FieldErrors(err))
	}
	fields := input.Fields()

	_, err := u.profiles.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		updated, err := u.profiles.Update(ctx, userID, fields)
		if err != nil {
			if errors.Is(err, domain.ErrHandleTaken) {
				return nil, handleTaken()
			}
			return nil, storeFailure("update", userID, err)
		}
		return updated, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, storeFailure("save_lookup", userID, err)
	}

	if _, err := u.profiles.GetByHandle(ctx, input.Handle); err == nil {
		return nil, handleTaken()
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, storeFailure("handle_lookup", userID, err)
	}

	now := time.Now().UTC()
	profile := &domain.Profile{
		ID:        uuid.NewString(),
		User:      domain.Owner{ID: userID},
		CreatedAt: now,
		UpdatedAt: now,
	}
	fields.Apply(profile)

	if err := u.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, domain.ErrHandleTaken) {
			return nil, handleTaken()
		}
		return nil, storeFailure("create", userID, err)
	}
	logger.Log.Info("Profile created", "user_id", userID, "handle", profile.Handle)

	created, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, storeFailure("create_reload", userID, err)
	}
	return created, nil
}

func (u *profileUsecase) AddExperience(ctx context.Context, userID string, input domain.ExperienceInput) (*domain.Profile, error) {
	if err := u.validate.Struct(input); err != nil {
		return nil, apperror.Validation(validation.FieldErrors(err))
	}
	from, to, err := parseRange(input.From, input.To)
	if err != nil {
		return nil, err
	}

	profile, err := u.loadOwned(ctx, "add_experience", userID)
	if err != nil {
		return nil, err
	}

	profile.AddExperience(domain.Experience{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Company:     input.Company,
		Location:    input.Location,
		From:        from,
		To:          to,
		Current:     input.Current,
		Description: input.Description,
	})

	if err := u.profiles.SaveEntries(ctx, profile); err != nil {
		return nil, storeFailure("add_experience", userID, err)
	}
	return profile, nil
}

func (u *profileUsecase) AddEducation(ctx context.Context, userID string, input domain.EducationInput) (*domain.Profile, error) {
	if err := u.validate.Struct(input); err != nil {
		return nil, apperror.Validation(validation.FieldErrors(err))
	}
	from, to, err := parseRange(input.From, input.To)
	if err != nil {
		return nil, err
	}

	profile, err := u.loadOwned(ctx, "add_education", userID)
	if err != nil {
		return nil, err
	}

	profile.AddEducation(domain.Education{
		ID:           uuid.NewString(),
		School:       input.School,
		Degree:       input.Degree,
		FieldOfStudy: input.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      input.Current,
		Description:  input.Description,
	})

	if err := u.profiles.SaveEntries(ctx, profile); err != nil {
		return nil, storeFailure("add_education", userID, err)
	}
	return profile, nil
}

// RemoveExperience deletes one experience entry. An unknown id is a no-op.
func (u *profileUsecase) RemoveExperience(ctx context.Context, userID, experienceID string) (*domain.Profile, error) {
	profile, err := u.loadOwned(ctx, "remove_experience", userID)
	if err != nil {
		return nil, err
	}

	if !profile.RemoveExperience(experienceID) {
		return profile, nil
	}
	if err := u.profiles.SaveEntries(ctx, profile); err != nil {
		return nil, storeFailure("remove_experience", userID, err)
	}
	return profile, nil
}

// RemoveEducation deletes one education entry. An unknown id is a no-op.
func (u *profileUsecase) RemoveEducation(ctx context.Context, userID, educationID string) (*domain.Profile, error) {
	profile, err := u.loadOwned(ctx, "remove_education", userID)
	if err != nil {
		return nil, err
	}

	if !profile.RemoveEducation(educationID) {
		return profile, nil
	}
	if err := u.profiles.SaveEntries(ctx, profile); err != nil {
		return nil, storeFailure("remove_education", userID, err)
	}
	return profile, nil
}

// DeleteAccount removes the caller's profile and then the account itself in
// one transaction.
func (u *profileUsecase) DeleteAccount(ctx context.Context, userID string) error {
	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.profiles.DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		return u.identities.Delete(ctx, userID)
	})
	if err != nil {
		return storeFailure("delete_account", userID, err)
	}
	logger.Log.Info("Account deleted", "user_id", userID)
	return nil
}

func parseRange(fromStr, toStr string) (time.Time, *time.Time, error) {
	from, err := validation.ParseDate(fromStr)
	if err != nil {
		return time.Time{}, nil, apperror.Validation(map[string]string{"from": "From date is not a valid date"})
	}
	if toStr == "" {
		return from, nil, nil
	}
	to, err := validation.ParseDate(toStr)
	if err != nil {
		return time.Time{}, nil, apperror.Validation(map[string]string{"to": "To date is not a valid date"})
	}
	return from, &to, nil
}
