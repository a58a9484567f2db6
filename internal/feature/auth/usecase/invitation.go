package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tender_backend/internal/feature/auth/domain/entity"
	platformmail "tender_backend/internal/platform/mail"
)

// InviteInput describes a team invitation.
type InviteInput struct {
	InviterID uint
	Email     string
	// Role defaults to PUBLISHER when empty.
	Role string
	// CompanyName is only honoured for admin invitations; publishers always share their own company.
	CompanyName string
}

// TeamMemberInput is the payload of an invited user completing registration.
type TeamMemberInput struct {
	Name        string
	Password    string
	Position    string
	Token       string
	InviteEmail string
}

// Invite issues an invitation token and mails it. Admins may invite any role;
// active publishers may invite publisher team members only.
func (u *authUsecase) Invite(ctx context.Context, in InviteInput) (*entity.EmailToken, error) {
	inviter, err := u.users.FindByID(ctx, in.InviterID)
	if err != nil {
		return nil, err
	}
	if err := inviter.CanAccess(); err != nil {
		return nil, err
	}

	role := entity.RolePublisher
	if strings.TrimSpace(in.Role) != "" {
		if role, err = entity.ParseRole(in.Role); err != nil {
			return nil, err
		}
	}

	company := strings.TrimSpace(in.CompanyName)
	switch inviter.Role {
	case entity.RoleAdmin:
	case entity.RolePublisher:
		if role != entity.RolePublisher {
			return nil, ErrInviteRoleNotAllowed
		}
		company = inviter.CompanyName
	default:
		return nil, ErrInviterNotAllowed
	}

	email, err := validateEmail(in.Email)
	if err != nil {
		return nil, err
	}

	inviterID := inviter.ID
	tok := &entity.EmailToken{
		Kind:        entity.TokenInvitation,
		Email:       email,
		Role:        role,
		CompanyName: company,
		InvitedBy:   &inviterID,
		ExpiresAt:   u.now().Add(u.cfg.InvitationTTL),
	}

	err = u.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := u.ensureEmailFree(ctx, email); err != nil {
			return err
		}
		raw, err := u.issueToken(ctx, tok)
		if err != nil {
			return err
		}
		team := company
		if team == "" {
			team = "the tender portal"
		}
		return u.send(ctx, platformmail.Message{
			To:      email,
			Subject: "You have been invited to join " + team,
			Body: fmt.Sprintf("%s invited you to join %s as %s.\n\nComplete your registration here:\n%s\n\n"+
				"The invitation expires in %s.\n",
				inviter.Name, team, strings.ToLower(string(role)),
				link(u.frontendBase(), "/team-member-register", raw, email), u.cfg.InvitationTTL),
		})
	})
	if err != nil {
		return nil, err
	}
	return tok, nil
}

// RegisterTeamMember consumes an invitation and creates an ACTIVE account with the
// invited role and company.
func (u *authUsecase) RegisterTeamMember(ctx context.Context, in TeamMemberInput) (*entity.User, error) {
	email := normalizeEmail(in.InviteEmail)
	if email == "" || strings.TrimSpace(in.Token) == "" {
		return nil, ErrTokenNotRecognised
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	var user *entity.User
	err = u.tx.WithinTx(ctx, func(ctx context.Context) error {
		tok, err := u.consume(ctx, entity.TokenInvitation, email, in.Token)
		if err != nil {
			return err
		}
		if err := u.ensureEmailFree(ctx, email); err != nil {
			return err
		}
		role := tok.Role
		if !role.Valid() {
			return errors.New("invitation carries no valid role")
		}
		user = &entity.User{
			Name:        name,
			Email:       email,
			Password:    hashed,
			Role:        role,
			Status:      entity.StatusActive,
			CompanyName: tok.CompanyName,
			Position:    strings.TrimSpace(in.Position),
		}
		return u.users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
