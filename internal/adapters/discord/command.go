package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"eventbot/internal/domain/entities"
	pkgdiscord "eventbot/pkg/discord"
)

const commandCreateEvent = "createevent"

// Option names of /createevent.
const (
	optTitle         = "title"
	optDescription   = "description"
	optDate          = "date"
	optTime          = "time"
	optChannel       = "channel"
	optChannelName   = "channel_name"
	optColor         = "color"
	optLimit         = "limit"
	optRequiredRole  = "required_role"
	optRequiredRole2 = "required_role_2"
	optRequiredRole3 = "required_role_3"
)

var requiredRoleOptions = []string{optRequiredRole, optRequiredRole2, optRequiredRole3}

func createEventCommand() *discordgo.ApplicationCommand {
	minLimit := float64(0)
	return &discordgo.ApplicationCommand{
		Name:        commandCreateEvent,
		Description: "Create an event that members can join with a reaction",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: optTitle, Description: "Event title", Required: true, MaxLength: entities.MaxTitleLength},
			{Type: discordgo.ApplicationCommandOptionString, Name: optDescription, Description: "Details shown in the announcement"},
			{Type: discordgo.ApplicationCommandOptionString, Name: optDate, Description: "Date, DD.MM.YYYY"},
			{Type: discordgo.ApplicationCommandOptionString, Name: optTime, Description: "Time of day, HH:MM"},
			{Type: discordgo.ApplicationCommandOptionBoolean, Name: optChannel, Description: "Create a private channel for participants"},
			{Type: discordgo.ApplicationCommandOptionString, Name: optChannelName, Description: "Private channel name (defaults to the title)"},
			{Type: discordgo.ApplicationCommandOptionString, Name: optColor, Description: "Embed color, hex (#ff8800) or a name"},
			{Type: discordgo.ApplicationCommandOptionInteger, Name: optLimit, Description: "Maximum participants, 0 for no limit", MinValue: &minLimit},
			{Type: discordgo.ApplicationCommandOptionRole, Name: optRequiredRole, Description: "Role required to join"},
			{Type: discordgo.ApplicationCommandOptionRole, Name: optRequiredRole2, Description: "Alternative role required to join"},
			{Type: discordgo.ApplicationCommandOptionRole, Name: optRequiredRole3, Description: "Alternative role required to join"},
		},
	}
}

// parseCreateEvent turns the command options into a typed request. Dates are read in loc.
func parseCreateEvent(options []*discordgo.ApplicationCommandInteractionDataOption, loc *time.Location) (entities.EventRequest, error) {
	byName := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, o := range options {
		if o != nil {
			byName[o.Name] = o
		}
	}
	str := func(name string) string {
		if o, ok := byName[name]; ok {
			if v, ok := o.Value.(string); ok {
				return v
			}
		}
		return ""
	}

	req := entities.EventRequest{
		Title:       str(optTitle),
		Description: str(optDescription),
	}

	date, withTime, err := pkgdiscord.ParseEventDate(str(optDate), str(optTime), loc)
	if err != nil {
		return entities.EventRequest{}, err
	}
	req.Date, req.WithTime = date, withTime

	if req.Color, err = pkgdiscord.ParseColor(str(optColor)); err != nil {
		return entities.EventRequest{}, err
	}

	if o, ok := byName[optChannel]; ok && o.BoolValue() {
		req.Channel = &entities.ChannelRequest{Name: str(optChannelName)}
	}
	if o, ok := byName[optLimit]; ok {
		req.MaxSlots = int(o.IntValue())
	}
	for _, name := range requiredRoleOptions {
		if id := str(name); id != "" {
			req.RequiredRoleIDs = append(req.RequiredRoleIDs, id)
		}
	}
	return req, nil
}

// handleCreateEvent defers an ephemeral answer, creates the event and reports the outcome.
func (h *Handler) handleCreateEvent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	locale := string(i.Locale)
	if i.Member == nil || i.Member.User == nil {
		respondEphemeral(s, i.Interaction, h.translate(locale, "errors.generic", nil))
		return
	}

	req, err := parseCreateEvent(i.ApplicationCommandData().Options, h.location)
	if err != nil {
		respondEphemeral(s, i.Interaction, h.translate(locale, pkgdiscord.ErrorKey(err), nil))
		return
	}

	if err := deferEphemeral(s, i.Interaction); err != nil {
		h.logger.Warn("defer interaction", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	creator := entities.Member{
		UserID:      i.Member.User.ID,
		DisplayName: resolveDisplayName(i.Member),
		AvatarURL:   i.Member.User.AvatarURL("256"),
	}
	event, err := h.eventUseCase.CreateEvent(ctx, req, creator)
	if err != nil {
		key := pkgdiscord.ErrorKey(err)
		if key == pkgdiscord.GenericErrorKey {
			h.logger.Error("create event", zap.String("title", req.Title), zap.String("user_id", creator.UserID), zap.Error(err))
			key = "errors.create_failed"
		}
		editResponse(s, i.Interaction, h.translate(locale, key, nil))
		return
	}

	editResponse(s, i.Interaction, h.translate(locale, "info.event_created", map[string]any{"Title": event.Title}))
}
