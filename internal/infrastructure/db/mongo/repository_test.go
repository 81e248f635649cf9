package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/99minutos/task-tracker/internal/core/domain"
)

const (
	ownerID = "11111111-1111-1111-1111-111111111111"
	taskID  = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
)

var created = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newMockT(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func taskDoc(id, title, status string, at time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "owner_id", Value: ownerID},
		{Key: "title", Value: title},
		{Key: "description", Value: ""},
		{Key: "status", Value: status},
		{Key: "created_at", Value: at},
	}
}

func TestUserRepository_Create(t *testing.T) {
	mt := newMockT(t)

	mt.Run("stores the hash", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u, err := repo.Create(context.Background(), &domain.User{
			ID: "u-1", Name: "Alice", Email: "alice@example.com", PasswordHash: "hash", CreatedAt: created,
		})
		require.NoError(mt, err)
		require.Equal(mt, "u-1", u.ID)

		cmd := mt.GetStartedEvent().Command
		require.Equal(mt, "u-1", cmd.Lookup("documents", "0", "_id").StringValue())
		require.Equal(mt, "alice@example.com", cmd.Lookup("documents", "0", "email").StringValue())
		require.Equal(mt, "hash", cmd.Lookup("documents", "0", "password_hash").StringValue())
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: test.users index: email_1",
		}))

		_, err := repo.Create(context.Background(), &domain.User{ID: "u-2", Email: "alice@example.com"})
		require.ErrorIs(mt, err, domain.ErrEmailTaken)
	})

	mt.Run("other write error", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 121, Message: "document failed validation"}))

		_, err := repo.Create(context.Background(), &domain.User{ID: "u-3", Email: "c@example.com"})
		require.Error(mt, err)
		require.NotErrorIs(mt, err, domain.ErrEmailTaken)
	})
}

func TestUserRepository_FindByEmail(t *testing.T) {
	mt := newMockT(t)

	mt.Run("found", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		ns := mt.DB.Name() + "." + collectionUsers
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "u-1"},
			{Key: "name", Value: "Alice"},
			{Key: "email", Value: "alice@example.com"},
			{Key: "password_hash", Value: "hash"},
			{Key: "created_at", Value: created},
		}))

		u, err := repo.FindByEmail(context.Background(), "alice@example.com")
		require.NoError(mt, err)
		require.Equal(mt, "u-1", u.ID)
		require.Equal(mt, "hash", u.PasswordHash)
		require.True(mt, created.Equal(u.CreatedAt))
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		ns := mt.DB.Name() + "." + collectionUsers
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
		require.ErrorIs(mt, err, domain.ErrUserNotFound)
	})
}

func TestTaskRepository_FindByID_NotFound(t *testing.T) {
	mt := newMockT(t)

	mt.Run("missing", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.DB)
		ns := mt.DB.Name() + "." + collectionTasks
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), taskID)
		require.ErrorIs(mt, err, domain.ErrTaskNotFound)
	})
}

func TestTaskRepository_ListByOwner(t *testing.T) {
	mt := newMockT(t)

	mt.Run("newest first", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.DB)
		ns := mt.DB.Name() + "." + collectionTasks
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			taskDoc("t-2", "second", "pending", created.Add(time.Minute)),
			taskDoc("t-1", "first", "done", created),
		))

		tasks, err := repo.ListByOwner(context.Background(), ownerID)
		require.NoError(mt, err)
		require.Len(mt, tasks, 2)
		require.Equal(mt, "t-2", tasks[0].ID)
		require.Equal(mt, domain.StatusDone, tasks[1].Status)

		cmd := mt.GetStartedEvent().Command
		require.Equal(mt, ownerID, cmd.Lookup("filter", "owner_id").StringValue())
		sort := cmd.Lookup("sort").Document()
		require.Equal(mt, "created_at", sort.Index(0).Key())
		require.Equal(mt, int32(-1), sort.Index(0).Value().Int32())
		require.Equal(mt, "_id", sort.Index(1).Key())
		require.Equal(mt, int32(-1), sort.Index(1).Value().Int32())
	})

	mt.Run("empty is not nil", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.DB)
		ns := mt.DB.Name() + "." + collectionTasks
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		tasks, err := repo.ListByOwner(context.Background(), ownerID)
		require.NoError(mt, err)
		require.NotNil(mt, tasks)
		require.Empty(mt, tasks)
	})
}

func TestTaskRepository_Update(t *testing.T) {
	mt := newMockT(t)

	mt.Run("only status", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: taskDoc(taskID, "Buy milk", "done", created)},
		))

		done := domain.StatusDone
		task, err := repo.Update(context.Background(), ownerID, taskID, domain.TaskPatch{Status: &done})
		require.NoError(mt, err)
		require.Equal(mt, domain.StatusDone, task.Status)
		require.Equal(mt, "Buy milk", task.Title)

		cmd := mt.GetStartedEvent().Command
		require.Equal(mt, taskID, cmd.Lookup("query", "_id").StringValue())
		require.Equal(mt, ownerID, cmd.Lookup("query", "owner_id").StringValue())
		require.Equal(mt, "done", cmd.Lookup("update", "$set", "status").StringValue())
		_, err = cmd.LookupErr("update", "$set", "title")
		require.Error(mt, err, "absent fields must not be written")
	})

	mt.Run("no matching owner", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		title := "x"
		_, err := repo.Update(context.Background(), "someone-else", taskID, domain.TaskPatch{Title: &title})
		require.ErrorIs(mt, err, domain.ErrTaskNotFound)
	})

	mt.Run("empty patch reads the owned task", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.DB)
		ns := mt.DB.Name() + "." + collectionTasks
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			taskDoc(taskID, "Buy milk", "pending", created),
		))

		task, err := repo.Update(context.Background(), ownerID, taskID, domain.TaskPatch{})
		require.NoError(mt, err)
		require.Equal(mt, taskID, task.ID)

		ev := mt.GetStartedEvent()
		require.Equal(mt, "find", ev.CommandName)
		require.Equal(mt, ownerID, ev.Command.Lookup("filter", "owner_id").StringValue())
	})

	mt.Run("empty patch on foreign task", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.DB)
		ns := mt.DB.Name() + "." + collectionTasks
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.Update(context.Background(), "someone-else", taskID, domain.TaskPatch{})
		require.ErrorIs(mt, err, domain.ErrTaskNotFound)
	})
}

func TestTaskRepository_Delete(t *testing.T) {
	mt := newMockT(t)

	mt.Run("deleted", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		require.NoError(mt, repo.Delete(context.Background(), ownerID, taskID))

		cmd := mt.GetStartedEvent().Command
		require.Equal(mt, taskID, cmd.Lookup("deletes", "0", "q", "_id").StringValue())
		require.Equal(mt, ownerID, cmd.Lookup("deletes", "0", "q", "owner_id").StringValue())
	})

	mt.Run("no matching row", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.Delete(context.Background(), "someone-else", taskID)
		require.ErrorIs(mt, err, domain.ErrTaskNotFound)
	})
}
