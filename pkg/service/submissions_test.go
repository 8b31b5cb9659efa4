package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/countyai/cop-portal/pkg/model"
	"github.com/countyai/cop-portal/pkg/store"
)

func TestPromptCreateAndReview(t *testing.T) {
	ctx := context.Background()
	bus := &recordingBus{}
	svc := NewPromptService(newRepos(t).prompts, bus, nopLogger())

	prompt, err := svc.Create(ctx, CreatePromptRequest{
		Title:       "Summarize minutes",
		Category:    "writing",
		Description: "Board meeting summaries",
		Template:    "Summarize: {{minutes}}",
		Tags:        []string{"meetings", "meetings", " ", "summaries"},
	})
	require.NoError(t, err)
	require.Equal(t, model.PromptPending, prompt.Status)
	require.Equal(t, model.StringList{"meetings", "summaries"}, prompt.Tags)

	reviewed, err := svc.Update(ctx, prompt.ID, model.PromptPatch{Status: ptr(model.PromptApproved)}, "reviewer@county.gov")
	require.NoError(t, err)
	require.Equal(t, "reviewer@county.gov", *reviewed.ReviewedBy)
	require.NotNil(t, reviewed.ReviewedAt)

	pending, err := svc.List(ctx, store.PromptFilter{Status: string(model.PromptPending)})
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestPromptCreateRejectsMissingTemplate(t *testing.T) {
	r := newRepos(t)
	svc := NewPromptService(r.prompts, nil, nopLogger())

	_, err := svc.Create(context.Background(), CreatePromptRequest{Title: "t", Category: "c", Description: "d"})
	requireValidation(t, err, "template")

	list, err := svc.List(context.Background(), store.PromptFilter{})
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestPromptUpdateRejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	svc := NewPromptService(newRepos(t).prompts, nil, nopLogger())
	prompt, err := svc.Create(ctx, CreatePromptRequest{Title: "t", Category: "c", Description: "d", Template: "x"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, prompt.ID, model.PromptPatch{Status: ptr(model.PromptStatus("published"))}, "admin")
	requireValidation(t, err, "status")
}

func TestPromptUpdateIgnoresBlankContent(t *testing.T) {
	ctx := context.Background()
	svc := NewPromptService(newRepos(t).prompts, nil, nopLogger())
	prompt, err := svc.Create(ctx, CreatePromptRequest{Title: "t", Category: "c", Description: "d", Template: "x"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, prompt.ID, model.PromptPatch{
		Title:       ptr(""),
		Category:    ptr("  "),
		Description: ptr("better description"),
		Template:    ptr(""),
	}, "admin")
	require.NoError(t, err)
	require.Equal(t, "t", updated.Title)
	require.Equal(t, "c", updated.Category)
	require.Equal(t, "better description", updated.Description)
	require.Equal(t, "x", updated.Template)
}

func TestContactCreateAndModerate(t *testing.T) {
	ctx := context.Background()
	svc := NewContactService(newRepos(t).contacts, nil, nopLogger())

	contact, err := svc.Create(ctx, CreateContactRequest{
		Name:    "Jo Park",
		Email:   "jo@county.gov",
		Subject: "Training",
		Message: "When is the next session?",
	})
	require.NoError(t, err)
	require.Equal(t, model.ContactNew, contact.Status)

	updated, err := svc.Update(ctx, contact.ID, model.ContactPatch{Status: ptr(model.ContactReplied), AdminNotes: ptr("sent calendar")})
	require.NoError(t, err)
	require.Equal(t, model.ContactReplied, updated.Status)
	require.Equal(t, "sent calendar", updated.AdminNotes)
	require.Equal(t, "Training", updated.Subject)
}

func TestContactCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewContactService(newRepos(t).contacts, nil, nopLogger())

	_, err := svc.Create(ctx, CreateContactRequest{Name: "Jo", Email: "jo@county.gov", Subject: "Hi"})
	requireValidation(t, err, "message")

	_, err = svc.Create(ctx, CreateContactRequest{Name: "Jo", Email: "nope", Subject: "Hi", Message: "m"})
	requireValidation(t, err, "email")

	list, err := svc.List(ctx, store.ContactFilter{})
	require.NoError(t, err)
	require.Empty(t, list)
}
