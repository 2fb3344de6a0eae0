package group

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/splitledger/internal/audit"
	"github.com/fkhayef/splitledger/pkg/apperror"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	auditSvc := audit.NewService(audit.NewRepository(db), time.Second)
	svc := NewService(NewRepository(db), auditSvc, db, time.Second)
	return svc, mock, func() { db.Close() }
}

func expectAudit(mock sqlmock.Sqlmock, action string) {
	mock.ExpectQuery("INSERT INTO audit_log").
		WillReturnRows(sqlmock.NewRows([]string{"id", "group_id", "actor_id", "action", "entity_type", "entity_id", "created_at"}).
			AddRow(1, 3, 10, action, "group", 3, time.Now()))
}

func TestCreateGroup(t *testing.T) {
	t.Run("creates group and admin membership atomically", func(t *testing.T) {
		svc, mock, cleanup := newTestService(t)
		defer cleanup()

		now := time.Now()
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO groups").
			WithArgs("goa trip", int64(10), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_by", "token", "created_at"}).
				AddRow(3, "goa trip", 10, "some-token", now))
		mock.ExpectQuery("INSERT INTO group_members").
			WithArgs(int64(3), int64(10), MemberRoleAdmin).
			WillReturnRows(sqlmock.NewRows([]string{"id", "group_id", "user_id", "role", "joined_at"}).
				AddRow(1, 3, 10, "admin", now))
		mock.ExpectCommit()
		expectAudit(mock, audit.ActionGroupCreated)

		group, err := svc.Create(context.Background(), 10, &CreateGroupRequest{Name: "goa trip"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), group.ID)
		assert.NotEmpty(t, group.Token)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		svc, _, cleanup := newTestService(t)
		defer cleanup()

		_, err := svc.Create(context.Background(), 10, &CreateGroupRequest{})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})
}

func TestJoinByToken(t *testing.T) {
	groupRows := func(now time.Time) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "name", "created_by", "token", "created_at"}).
			AddRow(3, "goa trip", 10, "tok-123", now)
	}

	t.Run("adds the user as a member", func(t *testing.T) {
		svc, mock, cleanup := newTestService(t)
		defer cleanup()

		now := time.Now()
		mock.ExpectQuery("SELECT id, name, created_by, token, created_at").
			WithArgs("tok-123").
			WillReturnRows(groupRows(now))
		mock.ExpectQuery("INSERT INTO group_members").
			WithArgs(int64(3), int64(20), MemberRoleMember).
			WillReturnRows(sqlmock.NewRows([]string{"id", "group_id", "user_id", "role", "joined_at"}).
				AddRow(2, 3, 20, "member", now))
		expectAudit(mock, audit.ActionGroupJoined)

		member, err := svc.JoinByToken(context.Background(), 20, "tok-123")
		require.NoError(t, err)
		assert.Equal(t, int64(3), member.GroupID)
		assert.Equal(t, MemberRoleMember, member.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("joining twice returns the existing membership", func(t *testing.T) {
		svc, mock, cleanup := newTestService(t)
		defer cleanup()

		now := time.Now()
		mock.ExpectQuery("SELECT id, name, created_by, token, created_at").
			WithArgs("tok-123").
			WillReturnRows(groupRows(now))
		mock.ExpectQuery("INSERT INTO group_members").
			WithArgs(int64(3), int64(20), MemberRoleMember).
			WillReturnError(&pq.Error{Code: "23505"})

		// fall back to the existing row
		mock.ExpectQuery("SELECT gm.id, gm.group_id, gm.user_id").
			WithArgs(int64(3), int64(20)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "group_id", "user_id", "role", "joined_at", "username", "email"}).
				AddRow(2, 3, 20, "member", now, "bob", "bob@example.com"))

		member, err := svc.JoinByToken(context.Background(), 20, "tok-123")
		require.NoError(t, err)
		assert.Equal(t, int64(20), member.UserID)
		assert.Equal(t, "bob", member.Username)
	})

	t.Run("unknown token", func(t *testing.T) {
		svc, mock, cleanup := newTestService(t)
		defer cleanup()

		mock.ExpectQuery("SELECT id, name, created_by, token, created_at").
			WithArgs("nope").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := svc.JoinByToken(context.Background(), 20, "nope")
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("empty token", func(t *testing.T) {
		svc, _, cleanup := newTestService(t)
		defer cleanup()

		_, err := svc.JoinByToken(context.Background(), 20, "")
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})
}

func TestAddMember(t *testing.T) {
	memberRow := func(id, groupID, userID int64, role string, now time.Time) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "group_id", "user_id", "role", "joined_at", "username", "email"}).
			AddRow(id, groupID, userID, role, now, "user", "u@example.com")
	}

	t.Run("admin adds a member", func(t *testing.T) {
		svc, mock, cleanup := newTestService(t)
		defer cleanup()

		now := time.Now()
		mock.ExpectQuery("SELECT gm.id, gm.group_id, gm.user_id").
			WithArgs(int64(3), int64(10)).
			WillReturnRows(memberRow(1, 3, 10, "admin", now))
		mock.ExpectQuery("INSERT INTO group_members").
			WithArgs(int64(3), int64(20), MemberRoleMember).
			WillReturnRows(sqlmock.NewRows([]string{"id", "group_id", "user_id", "role", "joined_at"}).
				AddRow(2, 3, 20, "member", now))

		member, err := svc.AddMember(context.Background(), 3, 10, &AddMemberRequest{UserID: 20})
		require.NoError(t, err)
		assert.Equal(t, int64(20), member.UserID)
	})

	t.Run("non-admin cannot add members", func(t *testing.T) {
		svc, mock, cleanup := newTestService(t)
		defer cleanup()

		mock.ExpectQuery("SELECT gm.id, gm.group_id, gm.user_id").
			WithArgs(int64(3), int64(20)).
			WillReturnRows(memberRow(2, 3, 20, "member", time.Now()))

		_, err := svc.AddMember(context.Background(), 3, 20, &AddMemberRequest{UserID: 30})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("duplicate member conflicts", func(t *testing.T) {
		svc, mock, cleanup := newTestService(t)
		defer cleanup()

		mock.ExpectQuery("SELECT gm.id, gm.group_id, gm.user_id").
			WithArgs(int64(3), int64(10)).
			WillReturnRows(memberRow(1, 3, 10, "admin", time.Now()))
		mock.ExpectQuery("INSERT INTO group_members").
			WillReturnError(&pq.Error{Code: "23505"})

		_, err := svc.AddMember(context.Background(), 3, 10, &AddMemberRequest{UserID: 20})
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})
}
