package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personnel-audit-bot/internal/config"
	"personnel-audit-bot/internal/metrics"
	"personnel-audit-bot/internal/models"
)

var testRestrictions = config.Restrictions{
	AuditChannelID:        "audit-chan",
	AuthorizedRoleID:      "auditor-role",
	BlacklistRoleID:       "hr-role",
	NotificationChannelID: "notify-chan",
}

var receivedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func auditRequest() Request {
	return Request{
		Command:   CommandAudit,
		GuildID:   "guild",
		GuildName: "Main Guild",
		ChannelID: "audit-chan",
		UserID:    "invoker",
		UserTag:   "officer",
		RoleIDs:   []string{"other", "auditor-role"},
		Options: map[string]string{
			OptionOfficer:  "Officer Smith, ID 42",
			OptionEmployee: "target",
			OptionPassport: "AB 123456",
			OptionReason:   "Promotion order #7",
			OptionDate:     "not-a-date",
		},
		ReceivedAt: receivedAt,
	}
}

func newTestAuditHandler(members *fakeMembers) *AuditHandler {
	h := NewAuditHandler(testRestrictions, members)
	h.newID = func() string { return "rec-1" }
	return h
}

func TestAuditHandler_WrongChannel(t *testing.T) {
	members := &fakeMembers{}
	h := newTestAuditHandler(members)

	req := auditRequest()
	req.ChannelID = "elsewhere"

	resp, err := h.Handle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, WrongChannelMessage, resp.Content)
	assert.True(t, resp.Ephemeral)
	assert.Nil(t, resp.Embed)
	assert.Nil(t, resp.After)
	assert.Equal(t, metrics.OutcomeWrongChannel, resp.Outcome)
	assert.Zero(t, members.calls)
}

func TestAuditHandler_MissingRole(t *testing.T) {
	members := &fakeMembers{}
	h := newTestAuditHandler(members)

	req := auditRequest()
	req.RoleIDs = []string{"other"}

	resp, err := h.Handle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, NoPermissionMessage, resp.Content)
	assert.True(t, resp.Ephemeral)
	assert.Nil(t, resp.Embed)
	assert.Equal(t, metrics.OutcomeForbidden, resp.Outcome)
	assert.Zero(t, members.calls)
}

func TestAuditHandler_WrongChannelCheckedFirst(t *testing.T) {
	h := newTestAuditHandler(&fakeMembers{})

	req := auditRequest()
	req.ChannelID = "elsewhere"
	req.RoleIDs = nil

	resp, err := h.Handle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, WrongChannelMessage, resp.Content)
}

func TestAuditHandler_Accepted(t *testing.T) {
	members := &fakeMembers{profiles: map[string]models.TargetProfile{
		"target": {UserID: "target", DisplayNickname: "Manager | Jane Doe", FallbackUsername: "jdoe"},
	}}
	h := newTestAuditHandler(members)

	resp, err := h.Handle(context.Background(), auditRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, members.calls)
	assert.False(t, resp.Ephemeral)
	assert.Empty(t, resp.Content)
	assert.Equal(t, metrics.OutcomeAccepted, resp.Outcome)
	require.NotNil(t, resp.Embed)

	embed := resp.Embed
	assert.Equal(t, RecordTitle, embed.Title)
	assert.Contains(t, embed.Description, "<@target>")
	assert.Equal(t, "2026-03-14T09:30:00Z", embed.Timestamp)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, RecordFooter, embed.Footer.Text)

	fields := map[string]string{}
	for _, f := range embed.Fields {
		fields[f.Name] = f.Value
	}
	assert.Len(t, embed.Fields, 6)
	assert.Equal(t, "Officer Smith, ID 42", fields[LabelAuditor])
	assert.Equal(t, "Jane Doe", fields[LabelEmployeeName])
	assert.Equal(t, "AB 123456", fields[LabelPassport])
	assert.Equal(t, "Manager", fields[LabelPosition])
	assert.Equal(t, "Promotion order #7", fields[LabelReason])
	assert.Equal(t, "not-a-date", fields[LabelActionDate])
}

func TestAuditHandler_NoNickname(t *testing.T) {
	members := &fakeMembers{profiles: map[string]models.TargetProfile{
		"target": {UserID: "target", FallbackUsername: "jdoe"},
	}}
	h := newTestAuditHandler(members)

	resp, err := h.Handle(context.Background(), auditRequest())
	require.NoError(t, err)

	assert.Equal(t, "jdoe", resp.Embed.Fields[1].Value)
	assert.Equal(t, models.DefaultPosition, resp.Embed.Fields[3].Value)
}

func TestAuditHandler_ResolveFailure(t *testing.T) {
	members := &fakeMembers{err: errors.New("unknown member")}
	h := newTestAuditHandler(members)

	resp, err := h.Handle(context.Background(), auditRequest())
	assert.ErrorContains(t, err, "unknown member")
	assert.Nil(t, resp.Embed)
	assert.Nil(t, resp.After)
}

func TestAuditHandler_MissingOption(t *testing.T) {
	members := &fakeMembers{}
	h := newTestAuditHandler(members)

	req := auditRequest()
	delete(req.Options, OptionPassport)

	resp, err := h.Handle(context.Background(), req)
	require.ErrorIs(t, err, ErrMissingOptions)
	assert.ErrorContains(t, err, OptionPassport)
	assert.Nil(t, resp.Embed)
	assert.Zero(t, members.calls)
}

func TestAuditHandler_WhitespaceValuePassesThrough(t *testing.T) {
	members := &fakeMembers{profiles: map[string]models.TargetProfile{
		"target": {UserID: "target", FallbackUsername: "jdoe"},
	}}
	h := newTestAuditHandler(members)

	req := auditRequest()
	req.Options[OptionReason] = " "

	resp, err := h.Handle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, " ", resp.Embed.Fields[4].Value)
}

func TestAuditHandler_AfterJournalsRecord(t *testing.T) {
	members := &fakeMembers{profiles: map[string]models.TargetProfile{
		"target": {UserID: "target", DisplayNickname: "Clerk | Ann Lee", FallbackUsername: "ann"},
	}}
	journal := &fakeJournal{}
	h := newTestAuditHandler(members)
	h.Journal = journal

	resp, err := h.Handle(context.Background(), auditRequest())
	require.NoError(t, err)
	require.NotNil(t, resp.After)
	assert.Empty(t, journal.records)

	resp.After(context.Background())
	require.Len(t, journal.records, 1)

	rec := journal.records[0]
	assert.Equal(t, "rec-1", rec.ID)
	assert.Equal(t, "guild", rec.GuildID)
	assert.Equal(t, "invoker", rec.InvokerID)
	assert.Equal(t, "target", rec.TargetUserID)
	assert.Equal(t, "Ann Lee", rec.EmployeeName)
	assert.Equal(t, "Clerk", rec.Position)
	assert.Equal(t, receivedAt, rec.CreatedAt)
}

func TestAuditHandler_AfterBlacklistMatch(t *testing.T) {
	members := &fakeMembers{profiles: map[string]models.TargetProfile{
		"target": {UserID: "target", FallbackUsername: "jdoe", Tag: "jdoe"},
	}}
	blacklist := newFakeBlacklist()
	blacklist.entries["AB 123456"] = models.BlacklistEntry{
		PassportNumber: "AB 123456",
		ListType:       models.ListTypeFaction,
		Reason:         "Desertion",
	}
	poster := &fakePoster{}
	notifier := &fakeNotifier{}
	journal := &fakeJournal{err: errors.New("db down")}

	h := newTestAuditHandler(members)
	h.Blacklist = blacklist
	h.Poster = poster
	h.Notifier = notifier
	h.Journal = journal

	resp, err := h.Handle(context.Background(), auditRequest())
	require.NoError(t, err)
	resp.After(context.Background())

	require.Len(t, blacklist.lookups, 1)
	assert.Equal(t, [2]string{"jdoe", "AB 123456"}, blacklist.lookups[0])

	require.Len(t, poster.posts, 1)
	assert.Equal(t, "notify-chan", poster.posts[0].channelID)
	assert.Contains(t, poster.posts[0].embed.Title, "blacklist")

	var reason string
	for _, f := range poster.posts[0].embed.Fields {
		if f.Name == "Blacklist reason" {
			reason = f.Value
		}
	}
	assert.Equal(t, "Desertion", reason)

	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "AB 123456")
	assert.Contains(t, notifier.messages[0], "Desertion")
}

func TestAuditHandler_AfterNoBlacklistMatch(t *testing.T) {
	members := &fakeMembers{profiles: map[string]models.TargetProfile{
		"target": {UserID: "target", FallbackUsername: "jdoe"},
	}}
	blacklist := newFakeBlacklist()
	poster := &fakePoster{}

	h := newTestAuditHandler(members)
	h.Blacklist = blacklist
	h.Poster = poster

	resp, err := h.Handle(context.Background(), auditRequest())
	require.NoError(t, err)
	resp.After(context.Background())

	assert.Len(t, blacklist.lookups, 1)
	assert.Empty(t, poster.posts)
}

func TestAuditHandler_AfterBlacklistLookupError(t *testing.T) {
	members := &fakeMembers{profiles: map[string]models.TargetProfile{
		"target": {UserID: "target", FallbackUsername: "jdoe"},
	}}
	blacklist := newFakeBlacklist()
	blacklist.findErr = errors.New("redis down")
	poster := &fakePoster{}

	h := newTestAuditHandler(members)
	h.Blacklist = blacklist
	h.Poster = poster

	resp, err := h.Handle(context.Background(), auditRequest())
	require.NoError(t, err)
	assert.NotPanics(t, func() { resp.After(context.Background()) })
	assert.Empty(t, poster.posts)
}

func TestRecordEmbed_BlankValues(t *testing.T) {
	embed := RecordEmbed(models.AuditRecord{TargetUserID: "u", CreatedAt: receivedAt})
	for _, f := range embed.Fields {
		assert.Equal(t, "-", f.Value, f.Name)
	}
}
