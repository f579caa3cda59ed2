package application

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"eventbot/internal/ports/output"
)

// RoleService grants and revokes event roles together with the optional separator role that
// groups them in the member list.
type RoleService struct {
	platform        output.Platform
	eventRepo       output.EventRepository
	separatorRoleID string
	logger          *zap.Logger
}

func NewRoleService(platform output.Platform, eventRepo output.EventRepository, separatorRoleID string, logger *zap.Logger) *RoleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleService{
		platform:        platform,
		eventRepo:       eventRepo,
		separatorRoleID: separatorRoleID,
		logger:          logger,
	}
}

// Grant adds roleID to the member, and the separator role when missing.
func (s *RoleService) Grant(ctx context.Context, userID, roleID string) error {
	if err := s.platform.AddMemberRole(ctx, userID, roleID); err != nil {
		return fmt.Errorf("add role %s: %w", roleID, err)
	}
	if s.separatorRoleID == "" {
		return nil
	}
	roles, err := s.platform.MemberRoles(ctx, userID)
	if err != nil {
		return fmt.Errorf("member roles: %w", err)
	}
	if slices.Contains(roles, s.separatorRoleID) {
		return nil
	}
	if err := s.platform.AddMemberRole(ctx, userID, s.separatorRoleID); err != nil {
		return fmt.Errorf("add separator role: %w", err)
	}
	return nil
}

// Revoke removes roleID from the member, and the separator role once no event role is left.
func (s *RoleService) Revoke(ctx context.Context, userID, roleID string) error {
	if err := s.platform.RemoveMemberRole(ctx, userID, roleID); err != nil {
		return fmt.Errorf("remove role %s: %w", roleID, err)
	}
	if s.separatorRoleID == "" {
		return nil
	}
	roles, err := s.platform.MemberRoles(ctx, userID)
	if err != nil {
		return fmt.Errorf("member roles: %w", err)
	}
	if !slices.Contains(roles, s.separatorRoleID) {
		return nil
	}
	eventRoles, err := s.eventRepo.FindRoleIDs(ctx)
	if err != nil {
		return fmt.Errorf("find event roles: %w", err)
	}
	for _, r := range roles {
		if r != roleID && slices.Contains(eventRoles, r) {
			return nil
		}
	}
	if err := s.platform.RemoveMemberRole(ctx, userID, s.separatorRoleID); err != nil {
		return fmt.Errorf("remove separator role: %w", err)
	}
	return nil
}
