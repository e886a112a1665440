package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/yukikurage/team-task-api/internal/constants"
	"github.com/yukikurage/team-task-api/internal/dto"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
	"gopkg.in/yaml.v3"
)

// TeamMemberService exposes read access to team members and seeding for local environments
type TeamMemberService struct {
	memberRepo repository.TeamMemberRepository
	logger     *slog.Logger
}

// NewTeamMemberService creates a new TeamMemberService
func NewTeamMemberService(memberRepo repository.TeamMemberRepository, logger *slog.Logger) *TeamMemberService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TeamMemberService{memberRepo: memberRepo, logger: logger}
}

// ListTeamMembers returns team members, optionally only those with the given status
func (s *TeamMemberService) ListTeamMembers(ctx context.Context, status *string) ([]dto.TeamMemberDTO, error) {
	members, err := s.memberRepo.List(ctx, repository.TeamMemberFilter{Status: status})
	if err != nil {
		s.logger.ErrorContext(ctx, "team member repository failure", "op", "list team members", "error", err)
		return nil, apierrors.Repository(err)
	}

	items := make([]dto.TeamMemberDTO, len(members))
	for i, m := range members {
		items[i] = dto.ToTeamMemberDTO(m)
	}
	return items, nil
}

// seedFile is the YAML layout accepted by SeedFromYAML
type seedFile struct {
	TeamMembers []models.TeamMember `yaml:"teamMembers"`
}

// SeedFromYAML upserts the team members listed in r and returns how many were read
func (s *TeamMemberService) SeedFromYAML(ctx context.Context, r io.Reader) (int, error) {
	var file seedFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return 0, fmt.Errorf("failed to parse team member seed: %w", err)
	}

	for i, m := range file.TeamMembers {
		if strings.TrimSpace(m.WorkdayID) == "" || strings.TrimSpace(m.Email) == "" {
			return 0, fmt.Errorf("team member %d: workdayId and email are required", i)
		}
		if m.Status == "" {
			file.TeamMembers[i].Status = constants.TeamMemberStatusActive
		}
	}

	if err := s.memberRepo.Upsert(ctx, file.TeamMembers); err != nil {
		s.logger.ErrorContext(ctx, "team member repository failure", "op", "seed team members", "error", err)
		return 0, apierrors.Repository(err)
	}

	s.logger.InfoContext(ctx, "team members seeded", "count", len(file.TeamMembers))
	return len(file.TeamMembers), nil
}
