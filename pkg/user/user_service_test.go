package user

import (
	"context"
	"testing"

	"github.com/whaleen/warehouse-sub000/domain"
	"github.com/whaleen/warehouse-sub000/entities"
	"github.com/whaleen/warehouse-sub000/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) UserService {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.User{}))

	return NewUserService(NewUserRepository(db), jwt.NewJWTService())
}

func TestRegisterAndLogin(t *testing.T) {
	service := setupUserTest(t)

	res, err := service.Register(context.Background(), domain.RegisterRequest{
		Name:     "Dana Ops",
		Email:    "dana@warehouse.test",
		Password: "strongpassword",
	})
	require.NoError(t, err)
	assert.Equal(t, "dana@warehouse.test", res.Email)

	_, err = service.Register(context.Background(), domain.RegisterRequest{
		Name:     "Dana Again",
		Email:    "dana@warehouse.test",
		Password: "otherpassword",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	login, err := service.Login(context.Background(), domain.LoginRequest{
		Email:    "dana@warehouse.test",
		Password: "strongpassword",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, domain.RoleUser, login.Role)

	me, err := service.Me(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dana Ops", me.Name)
	assert.NotEmpty(t, me.TenantID)
}

func TestLoginInvalidCredentials(t *testing.T) {
	service := setupUserTest(t)

	_, err := service.Register(context.Background(), domain.RegisterRequest{
		Name:     "Dana Ops",
		Email:    "dana@warehouse.test",
		Password: "strongpassword",
	})
	require.NoError(t, err)

	_, err = service.Login(context.Background(), domain.LoginRequest{
		Email:    "dana@warehouse.test",
		Password: "wrongpassword",
	})
	assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)

	_, err = service.Login(context.Background(), domain.LoginRequest{
		Email:    "nobody@warehouse.test",
		Password: "strongpassword",
	})
	assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)
}
