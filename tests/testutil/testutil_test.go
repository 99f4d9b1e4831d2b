package testutil

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d8nd8/python-final-diplom/internal/infrastructure/persistence/models"
)

func TestNewSQLiteDB(t *testing.T) {
	db := NewSQLiteDB(t)

	require.NoError(t, db.Create(&models.ParameterModel{Name: "color"}).Error)

	var count int64
	require.NoError(t, db.Model(&models.ParameterModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestNewSQLiteDB_Isolated(t *testing.T) {
	first := NewSQLiteDB(t)
	second := NewSQLiteDB(t)

	require.NoError(t, first.Create(&models.ParameterModel{Name: "size"}).Error)

	var count int64
	require.NoError(t, second.Model(&models.ParameterModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestNewMockDB(t *testing.T) {
	mockDB := NewMockDB(t)
	defer mockDB.Close()

	assert.NotNil(t, mockDB.DB)
	assert.NotNil(t, mockDB.Mock)
	assert.NotNil(t, mockDB.SqlDB)
	mockDB.ExpectationsWereMet(t)
}

func TestTestContext_SetUser(t *testing.T) {
	tc := NewTestContext(t)

	tc.SetUser(42, "shop")
	tc.SetRequestID("req-1")

	assert.Equal(t, int64(42), tc.Context.GetInt64("user_id"))
	assert.Equal(t, "shop", tc.Context.GetString("user_type"))
	assert.Equal(t, "req-1", tc.Context.GetString("request_id"))
	assert.Equal(t, http.MethodGet, tc.Context.Request.Method)
}

func TestPerformRequest_Envelope(t *testing.T) {
	engine := gin.New()
	engine.POST("/echo", func(c *gin.Context) {
		var body map[string]string
		_ = c.ShouldBindJSON(&body)
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": body})
	})
	engine.GET("/fail", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": gin.H{"code": "NOT_FOUND", "message": "missing"}})
	})

	w := PerformRequest(t, engine, http.MethodPost, "/echo", map[string]string{"name": "hammer"}, nil)
	AssertSuccessResponse(t, w, http.StatusCreated)
	data := DecodeData[map[string]string](t, w)
	assert.Equal(t, "hammer", data["name"])

	w = PerformRequest(t, engine, http.MethodGet, "/fail", nil, nil)
	AssertErrorResponse(t, w, http.StatusNotFound, "NOT_FOUND")
}

func TestRequireEventually(t *testing.T) {
	calls := 0
	RequireEventually(t, func() bool {
		calls++
		return calls >= 3
	}, time.Second, time.Millisecond)
	assert.Equal(t, 3, calls)
}
