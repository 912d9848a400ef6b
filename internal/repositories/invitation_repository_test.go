package repositories

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/require"

	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
)

// fakeRow satisfies pgx.Row with a canned Scan.
type fakeRow func(dest ...interface{}) error

func (f fakeRow) Scan(dest ...interface{}) error { return f(dest...) }

func invitationRow(inv *models.Invitation) fakeRow {
	return func(dest ...interface{}) error {
		*(dest[0].(*uuid.UUID)) = inv.ID
		*(dest[1].(*uuid.UUID)) = inv.CompanyID
		*(dest[2].(*string)) = inv.Email
		*(dest[3].(*string)) = inv.Name
		*(dest[4].(*models.Role)) = inv.Role
		*(dest[5].(*string)) = inv.Token
		*(dest[6].(*uuid.UUID)) = inv.InvitedByUserID
		*(dest[7].(*time.Time)) = inv.ExpiresAt
		*(dest[8].(**time.Time)) = inv.AcceptedAt
		*(dest[9].(*time.Time)) = inv.CreatedAt
		*(dest[10].(*time.Time)) = inv.UpdatedAt
		*(dest[11].(*int64)) = inv.RowVersion
		return nil
	}
}

// fakeTx scripts QueryRow responses in order and records the transaction
// outcome.
type fakeTx struct {
	rows       []fakeRow
	execErr    error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	if len(t.rows) == 0 {
		return fakeRow(func(...interface{}) error { return pgx.ErrNoRows })
	}
	row := t.rows[0]
	t.rows = t.rows[1:]
	return row
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	if t.execErr != nil {
		return nil, t.execErr
	}
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (t *fakeTx) Commit(ctx context.Context) error   { t.committed = true; return nil }
func (t *fakeTx) Rollback(ctx context.Context) error { t.rolledBack = true; return nil }

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("not implemented")
}

func (t *fakeTx) BeginFunc(ctx context.Context, f func(pgx.Tx) error) error {
	return errors.New("not implemented")
}

func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("not implemented")
}

func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }

func (t *fakeTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, errors.New("not implemented")
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (t *fakeTx) QueryFunc(ctx context.Context, sql string, args []interface{}, scans []interface{}, f func(pgx.QueryFuncRow) error) (pgconn.CommandTag, error) {
	return nil, errors.New("not implemented")
}

func (t *fakeTx) Conn() *pgx.Conn { return nil }

type fakeDB struct {
	tx *fakeTx
}

func (d *fakeDB) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return nil, errors.New("not implemented")
}

func (d *fakeDB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (d *fakeDB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return fakeRow(func(...interface{}) error { return pgx.ErrNoRows })
}

func (d *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) { return d.tx, nil }

func pendingInvitation() *models.Invitation {
	inv := &models.Invitation{
		ID:              uuid.New(),
		CompanyID:       uuid.New(),
		Email:           "tech@example.com",
		Name:            "Sam Tech",
		Role:            models.RoleCompanyStaff,
		Token:           strings.Repeat("a", 64),
		InvitedByUserID: uuid.New(),
		ExpiresAt:       time.Now().UTC().Add(24 * time.Hour),
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	inv.RowVersion = 1
	return inv
}

func TestRotateTokenCommitsAndReturnsFreshRow(t *testing.T) {
	inv := pendingInvitation()
	rotated := *inv
	rotated.Token = strings.Repeat("b", 64)
	rotated.RowVersion = 2

	tx := &fakeTx{rows: []fakeRow{invitationRow(inv), invitationRow(&rotated)}}
	repo := NewInvitationRepository(&fakeDB{tx: tx})

	out, err := repo.RotateToken(context.Background(), inv.ID, rotated.Token, nil, nil, rotated.ExpiresAt)
	require.NoError(t, err)
	require.Equal(t, rotated.Token, out.Token)
	require.Equal(t, int64(2), out.RowVersion)
	require.True(t, tx.committed)
	require.False(t, tx.rolledBack)
}

// A failure reading back the rotated row must roll the transaction back, not
// commit work the caller is told failed.
func TestRotateTokenRollsBackOnReadBackFailure(t *testing.T) {
	inv := pendingInvitation()
	scanErr := errors.New("connection reset")

	tx := &fakeTx{rows: []fakeRow{
		invitationRow(inv),
		func(...interface{}) error { return scanErr },
	}}
	repo := NewInvitationRepository(&fakeDB{tx: tx})

	_, err := repo.RotateToken(context.Background(), inv.ID, strings.Repeat("b", 64), nil, nil, time.Now().UTC().Add(24*time.Hour))
	require.ErrorIs(t, err, scanErr)
	require.True(t, tx.rolledBack)
	require.False(t, tx.committed)
}

func TestRotateTokenRejectsAcceptedInvitation(t *testing.T) {
	inv := pendingInvitation()
	now := time.Now().UTC()
	inv.AcceptedAt = &now

	tx := &fakeTx{rows: []fakeRow{invitationRow(inv)}}
	repo := NewInvitationRepository(&fakeDB{tx: tx})

	_, err := repo.RotateToken(context.Background(), inv.ID, strings.Repeat("b", 64), nil, nil, now.Add(24*time.Hour))
	require.Error(t, err)
	require.True(t, tx.rolledBack)
	require.False(t, tx.committed)
}
