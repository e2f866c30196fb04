package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/sherifbea1/task-manager/internal/database"
	"github.com/sherifbea1/task-manager/internal/models"
	"github.com/sherifbea1/task-manager/internal/repository"
	"github.com/sherifbea1/task-manager/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type userTestEnv struct {
	db      *gorm.DB
	handler *UserHandler
}

func setupUserTestEnv(t *testing.T) userTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Status{},
		&models.Label{},
		&models.Task{},
		&models.TaskLabel{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	handler := NewUserHandler(services.NewUserService(userRepo))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	gin.SetMode(gin.TestMode)

	return userTestEnv{
		db:      db,
		handler: handler,
	}
}

func createEnvUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "hashed"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestUserHandler_ListUsers(t *testing.T) {
	env := setupUserTestEnv(t)

	createEnvUser(t, env.db, "alice")
	createEnvUser(t, env.db, "bob")

	c, w := statusTestContext(http.MethodGet, "/api/users", nil, 1)
	env.handler.ListUsers(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response["users"], 2)
}

func TestUserHandler_UpdateUser_Self(t *testing.T) {
	env := setupUserTestEnv(t)

	user := createEnvUser(t, env.db, "alice")

	body, err := json.Marshal(map[string]string{
		"username":   "alice2",
		"first_name": "Alice",
	})
	require.NoError(t, err)

	c, w := statusTestContext(http.MethodPut, fmt.Sprintf("/api/users/%d", user.ID), body, user.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", user.ID)}}
	env.handler.UpdateUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	require.NoError(t, env.db.First(&updated, user.ID).Error)
	require.Equal(t, "alice2", updated.Username)
	require.Equal(t, "Alice", updated.FirstName)
}

// Editing someone else's account is denied with a NOT_SELF reason and a
// redirect back to the user list.
func TestUserHandler_UpdateUser_NotSelf(t *testing.T) {
	env := setupUserTestEnv(t)

	alice := createEnvUser(t, env.db, "alice")
	bob := createEnvUser(t, env.db, "bob")

	body, err := json.Marshal(map[string]string{"username": "hijacked"})
	require.NoError(t, err)

	c, w := statusTestContext(http.MethodPut, fmt.Sprintf("/api/users/%d", alice.ID), body, bob.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", alice.ID)}}
	env.handler.UpdateUser(c)

	require.Equal(t, http.StatusForbidden, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "NOT_SELF", response["code"])
	require.Equal(t, "/users", response["redirect"])

	var untouched models.User
	require.NoError(t, env.db.First(&untouched, alice.ID).Error)
	require.Equal(t, "alice", untouched.Username)
}

func TestUserHandler_DeleteUser_NotSelf(t *testing.T) {
	env := setupUserTestEnv(t)

	alice := createEnvUser(t, env.db, "alice")
	bob := createEnvUser(t, env.db, "bob")

	c, w := statusTestContext(http.MethodDelete, fmt.Sprintf("/api/users/%d", alice.ID), nil, bob.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", alice.ID)}}
	env.handler.DeleteUser(c)

	require.Equal(t, http.StatusForbidden, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "NOT_SELF", response["code"])

	var remaining models.User
	require.NoError(t, env.db.First(&remaining, alice.ID).Error)
}

func TestUserHandler_DeleteUser_Self(t *testing.T) {
	env := setupUserTestEnv(t)

	user := createEnvUser(t, env.db, "alice")

	c, w := statusTestContext(http.MethodDelete, fmt.Sprintf("/api/users/%d", user.ID), nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", user.ID)}}
	env.handler.DeleteUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var gone models.User
	require.Error(t, env.db.First(&gone, user.ID).Error)
}

// An author cannot delete their account while their tasks exist.
func TestUserHandler_DeleteUser_BlockedByAuthoredTasks(t *testing.T) {
	env := setupUserTestEnv(t)

	user := createEnvUser(t, env.db, "author")

	status := &models.Status{Name: "New"}
	require.NoError(t, env.db.Create(status).Error)
	require.NoError(t, env.db.Create(&models.Task{
		Name:     "Authored task",
		StatusID: status.ID,
		AuthorID: user.ID,
	}).Error)

	c, w := statusTestContext(http.MethodDelete, fmt.Sprintf("/api/users/%d", user.ID), nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", user.ID)}}
	env.handler.DeleteUser(c)

	require.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "REFERENCE_PROTECTED", response["code"])

	var remaining models.User
	require.NoError(t, env.db.First(&remaining, user.ID).Error)
}

// Executor assignments never block deletion: the account goes away and
// the affected tasks lose their executor.
func TestUserHandler_DeleteUser_DetachesExecutorLinks(t *testing.T) {
	env := setupUserTestEnv(t)

	author := createEnvUser(t, env.db, "author")
	executor := createEnvUser(t, env.db, "executor")

	status := &models.Status{Name: "New"}
	require.NoError(t, env.db.Create(status).Error)

	task := &models.Task{
		Name:       "Assigned task",
		StatusID:   status.ID,
		AuthorID:   author.ID,
		ExecutorID: &executor.ID,
	}
	require.NoError(t, env.db.Create(task).Error)

	c, w := statusTestContext(http.MethodDelete, fmt.Sprintf("/api/users/%d", executor.ID), nil, executor.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", executor.ID)}}
	env.handler.DeleteUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var gone models.User
	require.Error(t, env.db.First(&gone, executor.ID).Error)

	var detached models.Task
	require.NoError(t, env.db.First(&detached, task.ID).Error)
	require.Nil(t, detached.ExecutorID)
}
