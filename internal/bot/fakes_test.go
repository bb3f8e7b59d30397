package bot

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"

	"personnel-audit-bot/internal/models"
)

type fakeMembers struct {
	profiles map[string]models.TargetProfile
	err      error
	calls    int
}

func (f *fakeMembers) ResolveMember(_ context.Context, _, userID string) (models.TargetProfile, error) {
	f.calls++
	if f.err != nil {
		return models.TargetProfile{}, f.err
	}
	return f.profiles[userID], nil
}

type fakeBlacklist struct {
	mu      sync.Mutex
	entries map[string]models.BlacklistEntry
	addErr  error
	findErr error
	lookups [][2]string
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{entries: make(map[string]models.BlacklistEntry)}
}

func (f *fakeBlacklist) AddEntry(_ context.Context, entry models.BlacklistEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	f.entries[entry.PassportNumber] = entry
	return nil
}

func (f *fakeBlacklist) FindEntry(_ context.Context, tag, passport string) (models.BlacklistEntry, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, [2]string{tag, passport})
	if f.findErr != nil {
		return models.BlacklistEntry{}, false, f.findErr
	}
	e, ok := f.entries[passport]
	return e, ok, nil
}

func (f *fakeBlacklist) RemoveByPassport(_ context.Context, passport string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[passport]; !ok {
		return false, nil
	}
	delete(f.entries, passport)
	return true, nil
}

type fakeJournal struct {
	records []models.AuditRecord
	err     error
}

func (f *fakeJournal) InsertAudit(_ context.Context, rec models.AuditRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

type postedEmbed struct {
	channelID string
	embed     *discordgo.MessageEmbed
}

type fakePoster struct {
	posts []postedEmbed
}

func (f *fakePoster) PostEmbed(_ context.Context, channelID string, embed *discordgo.MessageEmbed) error {
	f.posts = append(f.posts, postedEmbed{channelID: channelID, embed: embed})
	return nil
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) Notify(message string) error {
	f.messages = append(f.messages, message)
	return nil
}
