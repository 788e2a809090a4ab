package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/patrickmn/go-cache"
	pkgerrors "github.com/pkg/errors"

	"github.com/uclaacm/bruinbot/internal/domain"
	"github.com/uclaacm/bruinbot/internal/usecase"
)

const roleIndexKey = "roles"

// DiscordGateway adapts a guild to the Directory port. Callers speak
// role display names; the gateway maintains a cached name-to-id
// index so every toggle does not refetch the guild role list.
type DiscordGateway struct {
	session *discordgo.Session
	guildID string
	modRole string
	cache   *cache.Cache
}

func NewDiscordGateway(session *discordgo.Session, guildID string, roles domain.RoleNames) *DiscordGateway {
	return &DiscordGateway{
		session: session,
		guildID: guildID,
		modRole: roles.Moderator,
		cache:   cache.New(10*time.Minute, 15*time.Minute),
	}
}

func (g *DiscordGateway) roleIndex(ctx context.Context) (map[string]*discordgo.Role, error) {
	if cached, found := g.cache.Get(roleIndexKey); found {
		return cached.(map[string]*discordgo.Role), nil
	}

	roles, err := g.session.GuildRoles(g.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to fetch guild roles")
	}

	index := make(map[string]*discordgo.Role, len(roles))
	for _, role := range roles {
		index[role.Name] = role
	}
	g.cache.Set(roleIndexKey, index, cache.DefaultExpiration)
	return index, nil
}

func (g *DiscordGateway) member(ctx context.Context, userID string) (*discordgo.Member, error) {
	member, err := g.session.GuildMember(g.guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to fetch member %s", userID)
	}
	return member, nil
}

// MemberRoles returns the member's roles as display names.
func (g *DiscordGateway) MemberRoles(ctx context.Context, userID string) ([]string, error) {
	member, err := g.member(ctx, userID)
	if err != nil {
		return nil, err
	}
	index, err := g.roleIndex(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]string, len(index))
	for name, role := range index {
		byID[role.ID] = name
	}

	var names []string
	for _, id := range member.Roles {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names, nil
}

func (g *DiscordGateway) AddRoles(ctx context.Context, userID string, roles ...string) error {
	index, err := g.roleIndex(ctx)
	if err != nil {
		return err
	}
	for _, name := range roles {
		role, ok := index[name]
		if !ok {
			return fmt.Errorf("unknown role: %s", name)
		}
		if err := g.session.GuildMemberRoleAdd(g.guildID, userID, role.ID, discordgo.WithContext(ctx)); err != nil {
			return pkgerrors.Wrapf(err, "failed to add role %s", name)
		}
	}
	return nil
}

func (g *DiscordGateway) RemoveRoles(ctx context.Context, userID string, roles ...string) error {
	index, err := g.roleIndex(ctx)
	if err != nil {
		return err
	}
	for _, name := range roles {
		role, ok := index[name]
		if !ok {
			return fmt.Errorf("unknown role: %s", name)
		}
		if err := g.session.GuildMemberRoleRemove(g.guildID, userID, role.ID, discordgo.WithContext(ctx)); err != nil {
			return pkgerrors.Wrapf(err, "failed to remove role %s", name)
		}
	}
	return nil
}

func (g *DiscordGateway) SetNickname(ctx context.Context, userID, nickname string) error {
	if err := g.session.GuildMemberNickname(g.guildID, userID, nickname, discordgo.WithContext(ctx)); err != nil {
		return pkgerrors.Wrapf(err, "failed to set nickname for %s", userID)
	}
	return nil
}

// IsModOrAdmin reports whether the member holds the moderator role
// or any role carrying the administrator permission.
func (g *DiscordGateway) IsModOrAdmin(ctx context.Context, userID string) (bool, error) {
	member, err := g.member(ctx, userID)
	if err != nil {
		return false, err
	}
	index, err := g.roleIndex(ctx)
	if err != nil {
		return false, err
	}

	for _, id := range member.Roles {
		for name, role := range index {
			if role.ID != id {
				continue
			}
			if name == g.modRole {
				return true, nil
			}
			if role.Permissions&discordgo.PermissionAdministrator != 0 {
				return true, nil
			}
		}
	}
	return false, nil
}

var _ usecase.Directory = (*DiscordGateway)(nil)
