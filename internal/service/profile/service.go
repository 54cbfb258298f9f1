package profile

import (
	"context"

	"github.com/attendly/attendance-backend-go/internal/domain/profile"
)

type ProfileServiceImpl struct {
	profile.ProfileRepository
}

func NewProfileService(profileRepo profile.ProfileRepository) profile.ProfileService {
	return &ProfileServiceImpl{
		ProfileRepository: profileRepo,
	}
}

// GetMyProfile implements profile.ProfileService.
func (s *ProfileServiceImpl) GetMyProfile(ctx context.Context, userID string) (profile.Profile, error) {
	return s.ProfileRepository.GetByID(ctx, userID)
}

// UpdateMyProfile implements profile.ProfileService.
func (s *ProfileServiceImpl) UpdateMyProfile(ctx context.Context, userID string, req profile.UpdateProfileRequest) (profile.Profile, error) {
	if err := req.Validate(); err != nil {
		return profile.Profile{}, err
	}

	p, err := s.ProfileRepository.GetByID(ctx, userID)
	if err != nil {
		return profile.Profile{}, err
	}

	if req.FullName != nil {
		p.FullName = req.FullName
	}
	if req.Phone != nil {
		p.Phone = req.Phone
	}
	if req.Timezone != nil {
		p.Timezone = req.Timezone
	}
	if req.WorkSchedule != nil {
		p.WorkSchedule = req.WorkSchedule
	}

	return s.ProfileRepository.Update(ctx, p)
}
