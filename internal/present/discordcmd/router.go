package discordcmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/uclaacm/bruinbot/internal/domain"
	"github.com/uclaacm/bruinbot/internal/usecase"
)

const embedColor = 0x1e6cff

const usageHint = "Invalid command/format.\n" +
	"Use `!iam <affiliation> <name> <ucla_email>` to request a 6-digit verification code and,\n" +
	"Use `!verify <code>` to verify your account!"

// Router parses prefix commands from guild messages and dispatches
// them to the usecases. Moderator-only commands are gated here; the
// officer/intern toggles carry their own committee-based authority
// check.
type Router struct {
	prefix       string
	verification *usecase.VerificationUsecase
	profile      *usecase.ProfileUsecase
	roles        *usecase.RoleUsecase
	audit        *usecase.AuditUsecase
	stats        *usecase.StatsUsecase
	messages     *usecase.MessageUsecase
	directory    usecase.Directory
}

func NewRouter(
	prefix string,
	verification *usecase.VerificationUsecase,
	profile *usecase.ProfileUsecase,
	roles *usecase.RoleUsecase,
	audit *usecase.AuditUsecase,
	stats *usecase.StatsUsecase,
	messages *usecase.MessageUsecase,
	directory usecase.Directory,
) *Router {
	return &Router{
		prefix:       prefix,
		verification: verification,
		profile:      profile,
		roles:        roles,
		audit:        audit,
		stats:        stats,
		messages:     messages,
		directory:    directory,
	}
}

func (r *Router) Attach(session *discordgo.Session) {
	session.AddHandler(r.handleMessage)
}

func (r *Router) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, r.prefix) {
		return
	}

	fields := strings.Fields(m.Content)
	name := strings.TrimPrefix(fields[0], r.prefix)
	args := fields[1:]

	ctx := context.Background()
	reply, embed, err := r.dispatch(ctx, m, name, args)
	if err != nil {
		reply = present(err)
	}

	if embed != nil {
		if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
			slog.Error("failed to send embed",
				slog.String("error", err.Error()),
				slog.String("module", "discordcmd"),
			)
		}
		return
	}
	if reply == "" {
		return
	}
	if _, err := s.ChannelMessageSendReply(m.ChannelID, reply, m.Reference()); err != nil {
		slog.Error("failed to send reply",
			slog.String("error", err.Error()),
			slog.String("module", "discordcmd"),
		)
	}
}

func (r *Router) dispatch(ctx context.Context, m *discordgo.MessageCreate, name string, args []string) (string, *discordgo.MessageEmbed, error) {
	userID := m.Author.ID

	switch name {
	case "iam":
		if len(args) < 3 {
			return usageHint, nil, nil
		}
		affiliation := args[0]
		email := args[len(args)-1]
		nickname := strings.Join(args[1:len(args)-1], " ")
		reply, err := r.verification.Issue(ctx, userID, email, nickname, affiliation)
		return reply, nil, err

	case "verify":
		if len(args) != 1 {
			return usageHint, nil, nil
		}
		reply, err := r.verification.Redeem(ctx, userID, m.Author.Username, m.Author.Discriminator, args[0])
		return reply, nil, err

	case "pronouns":
		if len(args) != 1 {
			return "Usage: `!pronouns <pronouns>` (max 10 characters)", nil, nil
		}
		reply, err := r.profile.SetPronouns(ctx, userID, args[0])
		return reply, nil, err

	case "major":
		if len(args) == 0 {
			return "Usage: `!major <valid_major>`", nil, nil
		}
		reply, err := r.profile.SetMajor(ctx, userID, strings.Join(args, " "))
		return reply, nil, err

	case "year":
		if len(args) != 1 {
			return "Usage: `!year <grad_year>`", nil, nil
		}
		reply, err := r.profile.SetGradYear(ctx, userID, args[0])
		return reply, nil, err

	case "transfer":
		reply, err := r.profile.ToggleTransfer(ctx, userID)
		return reply, nil, err

	case "whoami":
		member, err := r.profile.Whoami(ctx, userID)
		if err != nil {
			return "", nil, err
		}
		embed := memberEmbed(member, "About You", fmt.Sprintf("Why, you're %s of course!", member.Nickname))
		return "", embed, nil

	case "officer":
		if len(args) != 1 {
			return "Usage: `!officer <userid or username#discriminator>`", nil, nil
		}
		reply, err := r.roles.ToggleOfficer(ctx, userID, args[0])
		return reply, nil, err

	case "intern":
		if len(args) != 1 {
			return "Usage: `!intern <userid or username#discriminator>`", nil, nil
		}
		reply, err := r.roles.ToggleIntern(ctx, userID, args[0])
		return reply, nil, err

	case "lookup":
		if denied, err := r.requireMod(ctx, userID); denied != "" || err != nil {
			return denied, nil, err
		}
		if len(args) != 1 {
			return "Usage: `!lookup <userid or username#discriminator>`", nil, nil
		}
		member, err := r.profile.Lookup(ctx, args[0])
		if err != nil {
			return "", nil, err
		}
		embed := memberEmbed(member, "User Information", fmt.Sprintf("Moderator Lookup on %s", member.UserID))
		return "", embed, nil

	case "name":
		if denied, err := r.requireMod(ctx, userID); denied != "" || err != nil {
			return denied, nil, err
		}
		if len(args) < 2 {
			return "Usage: `!name <userid> <new_name>`", nil, nil
		}
		reply, err := r.profile.Rename(ctx, args[0], strings.Join(args[1:], " "))
		return reply, nil, err

	case "stats":
		if denied, err := r.requireMod(ctx, userID); denied != "" || err != nil {
			return denied, nil, err
		}
		kind := ""
		if len(args) > 0 {
			kind = args[0]
		}
		reply, err := r.stats.Render(ctx, kind)
		return reply, nil, err

	case "audit":
		if denied, err := r.requireMod(ctx, userID); denied != "" || err != nil {
			return denied, nil, err
		}
		reply, err := r.audit.Run(ctx, time.Now())
		return reply, nil, err

	case "getmsg":
		if denied, err := r.requireMod(ctx, userID); denied != "" || err != nil {
			return denied, nil, err
		}
		if len(args) != 1 {
			return "Usage: `!getmsg <type>`", nil, nil
		}
		reply, err := r.messages.Get(ctx, args[0])
		return reply, nil, err

	case "setmsg":
		if denied, err := r.requireMod(ctx, userID); denied != "" || err != nil {
			return denied, nil, err
		}
		if len(args) < 2 {
			return "Usage: `!setmsg <type> <message>`", nil, nil
		}
		reply, err := r.messages.Set(ctx, args[0], strings.Join(args[1:], " "))
		return reply, nil, err
	}

	// Unknown prefixes are ignored so the bot can share a server
	// with other prefix-command bots.
	return "", nil, nil
}

func (r *Router) requireMod(ctx context.Context, userID string) (string, error) {
	isMod, err := r.directory.IsModOrAdmin(ctx, userID)
	if err != nil {
		return "", err
	}
	if !isMod {
		return "Action not permitted.", nil
	}
	return "", nil
}

func present(err error) string {
	if ue, ok := domain.AsUserError(err); ok && ue.Kind != domain.KindFault {
		return ue.Message
	}
	slog.Error("command failed", slog.String("error", err.Error()), slog.String("module", "discordcmd"))
	return "Something went wrong!\n\x60" + err.Error() + "\x60"
}

func orNotSet(s string) string {
	if s == "" {
		return "*not set*"
	}
	return s
}

func memberEmbed(member domain.Member, title, description string) *discordgo.MessageEmbed {
	transfer := "no"
	if member.Transfer {
		transfer = "yes"
	}
	return &discordgo.MessageEmbed{
		Color:       embedColor,
		Title:       title,
		Description: description,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Username", Value: member.Handle(), Inline: true},
			{Name: "Nickname", Value: member.Nickname, Inline: true},
			{Name: "Pronouns", Value: orNotSet(member.Pronouns), Inline: true},
			{Name: "Major", Value: orNotSet(member.Major), Inline: true},
			{Name: "Year", Value: orNotSet(member.GradYear), Inline: true},
			{Name: "Transfer?", Value: transfer, Inline: true},
			{Name: "Affiliation", Value: orNotSet(string(member.Affiliation)), Inline: true},
			{Name: "Email", Value: member.Email, Inline: true},
			{Name: "Verified at", Value: member.VerifiedAt.UTC().Format("2006-01-02 15:04:05") + " UTC", Inline: true},
		},
	}
}
