package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
)

// memStore implements the three repositories on maps.
type memStore struct {
	mu           sync.Mutex
	nextEventID  uint
	nextPartID   uint
	events       map[uint]entities.Event
	participants []entities.Participant
	reminded     map[uint][]string
	messages     []entities.ReminderMessage
	failDelete   bool
}

var (
	_ output.EventRepository       = (*memStore)(nil)
	_ output.ParticipantRepository = (*participantStore)(nil)
	_ output.ReminderRepository    = (*reminderStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{events: make(map[uint]entities.Event), reminded: make(map[uint][]string)}
}

func (m *memStore) Create(_ context.Context, e *entities.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.events {
		if strings.EqualFold(other.Title, e.Title) {
			return domain.ErrDuplicateTitle
		}
	}
	m.nextEventID++
	e.ID = m.nextEventID
	m.events[e.ID] = *e
	return nil
}

func (m *memStore) FindByID(_ context.Context, id uint) (*entities.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return &e, nil
}

func (m *memStore) FindByMessageID(_ context.Context, messageID string) (*entities.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.MessageID == messageID {
			return &e, nil
		}
	}
	return nil, domain.ErrEventNotFound
}

func (m *memStore) TitleExists(_ context.Context, title string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if strings.EqualFold(e.Title, title) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) FindPendingReminders(_ context.Context, now time.Time) ([]entities.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entities.Event
	for _, e := range m.events {
		if e.HasDate() && e.Date.After(now) && e.RemindedAt.IsZero() {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) FindRoleIDs(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.events {
		if e.RoleID != "" {
			out = append(out, e.RoleID)
		}
	}
	return out, nil
}

func (m *memStore) MarkReminded(_ context.Context, id uint, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	e.RemindedAt = at
	m.events[id] = e
	return nil
}

func (m *memStore) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDelete {
		return errors.New("tx aborted")
	}
	if _, ok := m.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(m.events, id)
	delete(m.reminded, id)
	kept := m.participants[:0]
	for _, p := range m.participants {
		if p.EventID != id {
			kept = append(kept, p)
		}
	}
	m.participants = kept
	msgs := m.messages[:0]
	for _, msg := range m.messages {
		if msg.EventID != id {
			msgs = append(msgs, msg)
		}
	}
	m.messages = msgs
	return nil
}

func (m *memStore) participantsOf(eventID uint) []entities.Participant {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entities.Participant
	for _, p := range m.participants {
		if p.EventID == eventID {
			out = append(out, p)
		}
	}
	return out
}

type participantStore struct{ *memStore }

func (s participantStore) Add(_ context.Context, p *entities.Participant) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.participants {
		if existing.EventID == p.EventID && existing.UserID == p.UserID {
			return false, nil
		}
	}
	s.nextPartID++
	p.ID = s.nextPartID
	s.participants = append(s.participants, *p)
	return true, nil
}

func (s participantStore) Remove(_ context.Context, eventID uint, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.participants {
		if p.EventID == eventID && p.UserID == userID {
			s.participants = append(s.participants[:i], s.participants[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s participantStore) FindByEventID(_ context.Context, eventID uint) ([]entities.Participant, error) {
	return s.participantsOf(eventID), nil
}

func (s participantStore) FindEventIDsByUserID(_ context.Context, userID string) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []uint
	for _, p := range s.participants {
		if p.UserID == userID {
			out = append(out, p.EventID)
		}
	}
	return out, nil
}

type reminderStore struct{ *memStore }

func (s reminderStore) ReplaceRemindedUsers(_ context.Context, eventID uint, userIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminded[eventID] = append([]string(nil), userIDs...)
	return nil
}

func (s reminderStore) FindRemindedUsers(_ context.Context, eventID uint) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.reminded[eventID]...), nil
}

func (s reminderStore) AddMessage(_ context.Context, msg *entities.ReminderMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, *msg)
	return nil
}

func (s reminderStore) FindMessagesByEventID(_ context.Context, eventID uint) ([]entities.ReminderMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.ReminderMessage
	for _, m := range s.messages {
		if m.EventID == eventID {
			out = append(out, m)
		}
	}
	return out, nil
}

type sentMessage struct {
	ChannelID string
	Content   string
}

type reactionRef struct {
	MessageID string
	Emoji     string
	UserID    string
}

// fakePlatform records every call and keeps announcements and reactions in memory.
type fakePlatform struct {
	mu            sync.Mutex
	botID         string
	seq           int
	announcements map[string]*entities.Announcement
	messages      map[string]sentMessage
	dms           map[string][]string
	reactions     map[string][]string // messageID|emoji -> users
	retracted     []reactionRef
	roles         map[string]string // roleID -> name
	channels      map[string]string // channelID -> parentID
	synced        []string
	memberRoles   map[string][]string
	admins        map[string]bool

	failSend   bool
	failEdit   bool
	failDelete bool
}

var _ output.Platform = (*fakePlatform)(nil)

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		botID:         "bot",
		announcements: make(map[string]*entities.Announcement),
		messages:      make(map[string]sentMessage),
		dms:           make(map[string][]string),
		reactions:     make(map[string][]string),
		roles:         make(map[string]string),
		channels:      make(map[string]string),
		memberRoles:   make(map[string][]string),
		admins:        make(map[string]bool),
	}
}

func (p *fakePlatform) id(prefix string) string {
	p.seq++
	return fmt.Sprintf("%s-%d", prefix, p.seq)
}

func (p *fakePlatform) BotUserID() string { return p.botID }

func (p *fakePlatform) SendAnnouncement(_ context.Context, channelID string, a *entities.Announcement) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failSend {
		return "", errors.New("send failed")
	}
	id := p.id("msg")
	p.announcements[id] = a.Clone()
	p.messages[id] = sentMessage{ChannelID: channelID}
	return id, nil
}

func (p *fakePlatform) GetAnnouncement(_ context.Context, _, messageID string) (*entities.Announcement, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	a, ok := p.announcements[messageID]
	if !ok {
		return nil, errors.New("unknown message")
	}
	return a.Clone(), nil
}

func (p *fakePlatform) EditAnnouncement(_ context.Context, _, messageID string, a *entities.Announcement) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failEdit {
		return errors.New("edit failed")
	}
	p.announcements[messageID] = a.Clone()
	return nil
}

func (p *fakePlatform) SendMessage(_ context.Context, channelID, content string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failSend {
		return "", errors.New("send failed")
	}
	id := p.id("msg")
	p.messages[id] = sentMessage{ChannelID: channelID, Content: content}
	return id, nil
}

func (p *fakePlatform) SendDirectMessage(_ context.Context, userID, content string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dms[userID] = append(p.dms[userID], content)
	return nil
}

func (p *fakePlatform) DeleteMessage(_ context.Context, _, messageID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failDelete {
		return errors.New("delete failed")
	}
	delete(p.messages, messageID)
	delete(p.announcements, messageID)
	return nil
}

func (p *fakePlatform) AddReaction(_ context.Context, _, messageID, emoji string) error {
	p.react(messageID, emoji, p.botID)
	return nil
}

func (p *fakePlatform) react(messageID, emoji, userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	k := messageID + "|" + emoji
	p.reactions[k] = append(p.reactions[k], userID)
}

func (p *fakePlatform) unreact(messageID, emoji, userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	k := messageID + "|" + emoji
	users := p.reactions[k]
	for i, u := range users {
		if u == userID {
			p.reactions[k] = append(users[:i], users[i+1:]...)
			return
		}
	}
}

func (p *fakePlatform) RemoveUserReaction(_ context.Context, _, messageID, emoji, userID string) error {
	p.unreact(messageID, emoji, userID)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.retracted = append(p.retracted, reactionRef{MessageID: messageID, Emoji: emoji, UserID: userID})
	return nil
}

func (p *fakePlatform) ReactionUsers(_ context.Context, _, messageID, emoji string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.reactions[messageID+"|"+emoji]...), nil
}

func (p *fakePlatform) seeded(messageID string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, emoji := range []string{entities.EmojiJoin, entities.EmojiReminder, entities.EmojiArchive, entities.EmojiDelete} {
		for _, u := range p.reactions[messageID+"|"+emoji] {
			if u == p.botID {
				out = append(out, emoji)
			}
		}
	}
	return out
}

func (p *fakePlatform) CreateRole(_ context.Context, name string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.id("role")
	p.roles[id] = name
	return id, nil
}

func (p *fakePlatform) DeleteRole(_ context.Context, roleID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.roles, roleID)
	return nil
}

func (p *fakePlatform) AddMemberRole(_ context.Context, userID, roleID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.memberRoles[userID] = append(p.memberRoles[userID], roleID)
	return nil
}

func (p *fakePlatform) RemoveMemberRole(_ context.Context, userID, roleID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	roles := p.memberRoles[userID]
	for i, r := range roles {
		if r == roleID {
			p.memberRoles[userID] = append(roles[:i], roles[i+1:]...)
			break
		}
	}
	return nil
}

func (p *fakePlatform) MemberRoles(_ context.Context, userID string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.memberRoles[userID]...), nil
}

func (p *fakePlatform) IsPrivileged(_ context.Context, userID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.admins[userID], nil
}

func (p *fakePlatform) CreatePrivateChannel(_ context.Context, _, parentID, _ string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.id("chan")
	p.channels[id] = parentID
	return id, nil
}

func (p *fakePlatform) DeleteChannel(_ context.Context, channelID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.channels, channelID)
	return nil
}

func (p *fakePlatform) MoveChannel(_ context.Context, channelID, parentID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.channels[channelID] = parentID
	return nil
}

func (p *fakePlatform) SyncChannelPermissions(_ context.Context, channelID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.synced = append(p.synced, channelID)
	return nil
}

// manualScheduler keeps jobs until the test fires them.
type manualScheduler struct {
	mu       sync.Mutex
	seq      int
	jobs     map[output.JobHandle]scheduledJob
	canceled []output.JobHandle
}

type scheduledJob struct {
	at  time.Time
	job func()
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{jobs: make(map[output.JobHandle]scheduledJob)}
}

func (s *manualScheduler) Schedule(at time.Time, job func()) output.JobHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	h := output.JobHandle(fmt.Sprintf("job-%d", s.seq))
	s.jobs[h] = scheduledJob{at: at, job: job}
	return h
}

func (s *manualScheduler) Cancel(h output.JobHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, h)
	s.canceled = append(s.canceled, h)
}

func (s *manualScheduler) pending() []scheduledJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]scheduledJob, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	return out
}

// fireAll runs and discards every pending job.
func (s *manualScheduler) fireAll() {
	s.mu.Lock()
	jobs := s.jobs
	s.jobs = make(map[output.JobHandle]scheduledJob)
	s.mu.Unlock()
	for _, j := range jobs {
		j.job()
	}
}

// keyTranslator echoes the key and sorted data values.
type keyTranslator struct{}

func (keyTranslator) T(_ string, key string, data map[string]any) string {
	if len(data) == 0 {
		return key
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := []string{key}
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, data[k]))
	}
	return strings.Join(parts, " ")
}

type countingMetrics struct {
	nopMetrics
	mu        sync.Mutex
	created   int
	deleted   int
	sent      int
	failed    int
	scheduled int
	reactions int
}

func (m *countingMetrics) ReactionHandled(string, bool) { m.mu.Lock(); m.reactions++; m.mu.Unlock() }

func (m *countingMetrics) EventCreated() { m.mu.Lock(); m.created++; m.mu.Unlock() }
func (m *countingMetrics) EventDeleted() { m.mu.Lock(); m.deleted++; m.mu.Unlock() }
func (m *countingMetrics) ReminderSent() { m.mu.Lock(); m.sent++; m.mu.Unlock() }
func (m *countingMetrics) ReminderFailed() { m.mu.Lock(); m.failed++; m.mu.Unlock() }
func (m *countingMetrics) RemindersScheduled(n int) {
	m.mu.Lock()
	m.scheduled = n
	m.mu.Unlock()
}
