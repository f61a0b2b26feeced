package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountmodels "github.com/PuntoEntrega/PDE-sub002/internal/account/models"
	accountservice "github.com/PuntoEntrega/PDE-sub002/internal/account/service"
	accountstore "github.com/PuntoEntrega/PDE-sub002/internal/account/store"
	"github.com/PuntoEntrega/PDE-sub002/internal/invite/store"
	"github.com/PuntoEntrega/PDE-sub002/internal/notify"
	reviewmodels "github.com/PuntoEntrega/PDE-sub002/internal/review/models"
	id "github.com/PuntoEntrega/PDE-sub002/pkg/domain"
	dErrors "github.com/PuntoEntrega/PDE-sub002/pkg/domain-errors"
	"github.com/PuntoEntrega/PDE-sub002/pkg/requestcontext"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingChannel captures sent messages.
type recordingChannel struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (c *recordingChannel) Send(_ context.Context, msg notify.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

func (c *recordingChannel) last() notify.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent[len(c.sent)-1]
}

func actorContext(at time.Time) context.Context {
	ctx := requestcontext.WithActor(context.Background(), requestcontext.Actor{
		AccountID: id.AccountID(uuid.New()),
		RoleLevel: accountmodels.LevelCompanyAdmin,
		Status:    "active",
	})
	return requestcontext.WithTime(ctx, at)
}

func newService(mail notify.Channel) *Service {
	accounts := accountservice.New(accountstore.NewMemoryStore(), nil, testLogger())
	return New(store.NewMemoryStore(), accounts, mail, testLogger())
}

// tokenFromEmail pulls the raw token out of the invitation email body.
func tokenFromEmail(t *testing.T, body string) string {
	t.Helper()
	const marker = "aceptar la invitación: "
	i := strings.Index(body, marker)
	require.GreaterOrEqual(t, i, 0)
	rest := body[i+len(marker):]
	return strings.TrimSpace(strings.SplitN(rest, "\n", 2)[0])
}

func TestInviteStoresHashNotToken(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	mail := &recordingChannel{}
	invitations := store.NewMemoryStore()
	accounts := accountservice.New(accountstore.NewMemoryStore(), nil, testLogger())
	svc := New(invitations, accounts, mail, testLogger())

	inv, err := svc.Invite(actorContext(now), id.CompanyID(uuid.New()), "pedro.rojas@example.cr", "")
	require.NoError(t, err)
	assert.Equal(t, "collaborator", inv.Role)
	assert.Equal(t, now.Add(DefaultInvitationTTL), inv.ExpiresAt)

	require.Len(t, mail.sent, 1)
	token := tokenFromEmail(t, mail.last().Body)
	require.NotEmpty(t, token)
	assert.NotContains(t, inv.TokenHash, token)

	stored, err := invitations.FindByID(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.NotEqual(t, token, stored.TokenHash)
}

func TestAcceptCreatesDraftAccountWithDerivedName(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	mail := &recordingChannel{}
	svc := newService(mail)

	_, err := svc.Invite(actorContext(now), id.CompanyID(uuid.New()), "pedro.rojas@example.cr", "pde_operator")
	require.NoError(t, err)
	token := tokenFromEmail(t, mail.last().Body)

	account, err := svc.Accept(actorContext(now.Add(time.Hour)), "pedro.rojas@example.cr", token, "chosen-password")
	require.NoError(t, err)
	assert.Equal(t, "Pedro", account.FirstName)
	assert.Equal(t, "Rojas", account.LastName)
	assert.Equal(t, accountmodels.RoleOperator, account.Role)
	assert.Equal(t, reviewmodels.StatusDraft, account.Status)
}

func TestAcceptRejectsWrongToken(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	mail := &recordingChannel{}
	svc := newService(mail)

	_, err := svc.Invite(actorContext(now), id.CompanyID(uuid.New()), "pedro@example.cr", "")
	require.NoError(t, err)

	_, err = svc.Accept(actorContext(now), "pedro@example.cr", uuid.NewString(), "chosen-password")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestAcceptRejectsExpiredInvitation(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	mail := &recordingChannel{}
	svc := newService(mail)

	_, err := svc.Invite(actorContext(now), id.CompanyID(uuid.New()), "pedro@example.cr", "")
	require.NoError(t, err)
	token := tokenFromEmail(t, mail.last().Body)

	late := actorContext(now.Add(DefaultInvitationTTL + time.Hour))
	_, err = svc.Accept(late, "pedro@example.cr", token, "chosen-password")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestAcceptIsSingleUse(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	mail := &recordingChannel{}
	svc := newService(mail)

	_, err := svc.Invite(actorContext(now), id.CompanyID(uuid.New()), "pedro@example.cr", "")
	require.NoError(t, err)
	token := tokenFromEmail(t, mail.last().Body)

	_, err = svc.Accept(actorContext(now), "pedro@example.cr", token, "chosen-password")
	require.NoError(t, err)

	_, err = svc.Accept(actorContext(now), "pedro@example.cr", token, "chosen-password")
	require.Error(t, err)
	// The accepted invitation is no longer pending, so the token no longer
	// matches anything.
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestInviteRequiresActor(t *testing.T) {
	svc := newService(nil)
	_, err := svc.Invite(context.Background(), id.CompanyID(uuid.New()), "x@example.cr", "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
