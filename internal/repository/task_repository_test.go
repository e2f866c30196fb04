package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sherifbea1/task-manager/internal/models"
	"github.com/sherifbea1/task-manager/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTaskRepoDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Status{},
		&models.Label{},
		&models.Task{},
		&models.TaskLabel{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func taskIDs(tasks []models.Task) map[uint64]bool {
	ids := make(map[uint64]bool, len(tasks))
	for _, task := range tasks {
		ids[task.ID] = true
	}
	return ids
}

// The filter must behave as a pure intersection: for every subset of
// criteria, the combined result equals the intersection of the results
// of each criterion applied alone.
func TestTaskFilter_IsPureIntersection(t *testing.T) {
	db := setupTaskRepoDB(t)
	repo := NewTaskRepository(db)

	author := models.User{Username: "author", PasswordHash: "x"}
	other := models.User{Username: "other", PasswordHash: "x"}
	executor := models.User{Username: "executor", PasswordHash: "x"}
	require.NoError(t, db.Create(&author).Error)
	require.NoError(t, db.Create(&other).Error)
	require.NoError(t, db.Create(&executor).Error)

	statusA := models.Status{Name: "A"}
	statusB := models.Status{Name: "B"}
	require.NoError(t, db.Create(&statusA).Error)
	require.NoError(t, db.Create(&statusB).Error)

	label := models.Label{Name: "L"}
	require.NoError(t, db.Create(&label).Error)

	// A small population covering every combination dimension
	seed := []struct {
		status   uint64
		author   uint64
		executor *uint64
		labeled  bool
	}{
		{statusA.ID, author.ID, &executor.ID, true},
		{statusA.ID, author.ID, nil, false},
		{statusA.ID, other.ID, &executor.ID, false},
		{statusB.ID, author.ID, &executor.ID, true},
		{statusB.ID, other.ID, nil, true},
		{statusB.ID, other.ID, &executor.ID, false},
	}

	for _, s := range seed {
		task := models.Task{
			Name:       "Task",
			StatusID:   s.status,
			AuthorID:   s.author,
			ExecutorID: s.executor,
		}
		require.NoError(t, db.Create(&task).Error)
		if s.labeled {
			require.NoError(t, db.Create(&models.TaskLabel{TaskID: task.ID, LabelID: label.ID}).Error)
		}
	}

	single := func(f TaskFilter) map[uint64]bool {
		tasks, _, err := repo.List(f)
		require.NoError(t, err)
		return taskIDs(tasks)
	}

	byStatus := single(TaskFilter{StatusID: &statusA.ID})
	byExecutor := single(TaskFilter{ExecutorID: &executor.ID})
	byLabel := single(TaskFilter{LabelID: &label.ID})
	byAuthor := single(TaskFilter{AuthorID: &author.ID})

	combined := single(TaskFilter{
		StatusID:   &statusA.ID,
		ExecutorID: &executor.ID,
		LabelID:    &label.ID,
		AuthorID:   &author.ID,
	})

	for id := range combined {
		require.True(t, byStatus[id] && byExecutor[id] && byLabel[id] && byAuthor[id],
			"task %d in combined result but missing from a single-criterion result", id)
	}
	for id := range byStatus {
		if byExecutor[id] && byLabel[id] && byAuthor[id] {
			require.True(t, combined[id],
				"task %d in every single-criterion result but missing from combined", id)
		}
	}
}

func TestTaskFilter_UnknownIDsMatchNothing(t *testing.T) {
	db := setupTaskRepoDB(t)
	repo := NewTaskRepository(db)

	user := models.User{Username: "author", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	status := models.Status{Name: "A"}
	require.NoError(t, db.Create(&status).Error)
	require.NoError(t, db.Create(&models.Task{Name: "Task", StatusID: status.ID, AuthorID: user.ID}).Error)

	unknown := uint64(9999)
	for _, filter := range []TaskFilter{
		{StatusID: &unknown},
		{ExecutorID: &unknown},
		{LabelID: &unknown},
		{AuthorID: &unknown},
	} {
		tasks, total, err := repo.List(filter)
		require.NoError(t, err)
		require.Empty(t, tasks)
		require.Zero(t, total)
	}
}

func TestTaskFilter_OrderingIsNewestFirstStable(t *testing.T) {
	db := setupTaskRepoDB(t)
	repo := NewTaskRepository(db)

	user := models.User{Username: "author", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	status := models.Status{Name: "A"}
	require.NoError(t, db.Create(&status).Error)

	var created []uint64
	for i := 0; i < 5; i++ {
		task := models.Task{Name: "Task", StatusID: status.ID, AuthorID: user.ID}
		require.NoError(t, db.Create(&task).Error)
		created = append(created, task.ID)
	}

	tasks, total, err := repo.List(TaskFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Len(t, tasks, 5)

	// Insertion order reversed: ties on created_at fall back to id
	for i, task := range tasks {
		require.Equal(t, created[len(created)-1-i], task.ID)
	}
}

func TestTaskFilter_PaginationSlicesOrderedResult(t *testing.T) {
	db := setupTaskRepoDB(t)
	repo := NewTaskRepository(db)

	user := models.User{Username: "author", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	status := models.Status{Name: "A"}
	require.NoError(t, db.Create(&status).Error)

	var created []uint64
	for i := 0; i < 5; i++ {
		task := models.Task{Name: "Task", StatusID: status.ID, AuthorID: user.ID}
		require.NoError(t, db.Create(&task).Error)
		created = append(created, task.ID)
	}

	tasks, total, err := repo.List(TaskFilter{
		Pagination: utils.PaginationParams{Page: 2, Limit: 2, Offset: 2},
	})
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Len(t, tasks, 2)

	// Newest first, so page 2 holds the third and fourth newest
	require.Equal(t, created[2], tasks[0].ID)
	require.Equal(t, created[1], tasks[1].ID)
}

func TestTaskRepository_DeleteRemovesLabelRows(t *testing.T) {
	db := setupTaskRepoDB(t)
	repo := NewTaskRepository(db)

	user := models.User{Username: "author", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	status := models.Status{Name: "A"}
	require.NoError(t, db.Create(&status).Error)
	label := models.Label{Name: "L"}
	require.NoError(t, db.Create(&label).Error)

	task := models.Task{Name: "Task", StatusID: status.ID, AuthorID: user.ID}
	require.NoError(t, repo.Create(&task, []uint64{label.ID}))

	require.NoError(t, repo.Delete(task.ID))

	var rows []models.TaskLabel
	require.NoError(t, db.Where("task_id = ?", task.ID).Find(&rows).Error)
	require.Empty(t, rows)

	// The label itself is untouched
	var remaining models.Label
	require.NoError(t, db.First(&remaining, label.ID).Error)
}

func TestTaskRepository_RelabelRevivesRow(t *testing.T) {
	db := setupTaskRepoDB(t)
	repo := NewTaskRepository(db)

	user := models.User{Username: "author", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	status := models.Status{Name: "A"}
	require.NoError(t, db.Create(&status).Error)
	label := models.Label{Name: "L"}
	require.NoError(t, db.Create(&label).Error)

	task := models.Task{Name: "Task", StatusID: status.ID, AuthorID: user.ID}
	require.NoError(t, repo.Create(&task, []uint64{label.ID}))

	// Drop the label, then add it back
	require.NoError(t, repo.Update(&task, []uint64{}))
	require.NoError(t, repo.Update(&task, []uint64{label.ID}))

	var rows []models.TaskLabel
	require.NoError(t, db.Where("task_id = ?", task.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
}
